package userinfo

// googleIdentity: payload OIDC userinfo (sub, name, email, picture).
func googleIdentity(attrs map[string]any) *Identity {
	return &Identity{
		ID:       str(attrs, "sub"),
		Name:     str(attrs, "name"),
		Email:    str(attrs, "email"),
		ImageURL: str(attrs, "picture"),
	}
}
