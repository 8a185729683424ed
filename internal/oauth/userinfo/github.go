package userinfo

// githubIdentity: REST /user. El id es numérico y el email puede faltar
// (cuentas con email privado).
func githubIdentity(attrs map[string]any) *Identity {
	return &Identity{
		ID:       str(attrs, "id"),
		Name:     str(attrs, "name"),
		Email:    str(attrs, "email"),
		ImageURL: str(attrs, "avatar_url"),
	}
}
