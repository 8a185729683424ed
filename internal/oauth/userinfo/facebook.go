package userinfo

// facebookIdentity: Graph API /me?fields=id,name,email,picture.
// La imagen viene anidada en picture.data.url.
func facebookIdentity(attrs map[string]any) *Identity {
	id := &Identity{
		ID:    str(attrs, "id"),
		Name:  str(attrs, "name"),
		Email: str(attrs, "email"),
	}
	if u := nested(attrs, "picture", "data", "url"); u != nil {
		id.ImageURL = text(u)
	}
	return id
}
