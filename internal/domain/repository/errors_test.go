package repository

import (
	"errors"
	"fmt"
	"testing"
)

func TestResourceNotFoundError_Message(t *testing.T) {
	cases := []struct {
		err  *ResourceNotFoundError
		want string
	}{
		{NewResourceNotFound("User", "id", int64(42)), "User not found with id : '42'"},
		{NewResourceNotFound("User", "email", "a@b.c"), "User not found with email : 'a@b.c'"},
		{NewResourceNotFound("User", "id", nil), "User not found with id : 'null'"},
		{NewResourceNotFound("User", "email", (*string)(nil)), "User not found with email : 'null'"},
		{NewResourceNotFound("", "", ""), " not found with  : ''"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("got %q want %q", got, tc.want)
		}
	}
}

func TestResourceNotFoundError_IsNotFound(t *testing.T) {
	err := fmt.Errorf("load: %w", NewResourceNotFound("User", "id", 1))
	if !IsNotFound(err) {
		t.Fatal("expected IsNotFound to match wrapped ResourceNotFoundError")
	}
	var rnf *ResourceNotFoundError
	if !errors.As(err, &rnf) || rnf.Field != "id" {
		t.Fatalf("errors.As failed: %v", rnf)
	}
	if IsConflict(err) {
		t.Fatal("not a conflict")
	}
}

func TestParseAuthProvider(t *testing.T) {
	for _, in := range []string{"google", "GOOGLE", " GitHub ", "facebook", "local"} {
		if _, ok := ParseAuthProvider(in); !ok {
			t.Fatalf("expected %q to parse", in)
		}
	}
	if p, ok := ParseAuthProvider("twitter"); ok || p != "twitter" {
		t.Fatalf("twitter should not parse, got %q %v", p, ok)
	}
}

func TestUserClone_Independent(t *testing.T) {
	img := "http://img"
	u := &User{ID: 1, ImageURL: &img}
	c := u.Clone()
	*c.ImageURL = "changed"
	if *u.ImageURL != "http://img" {
		t.Fatal("clone shares ImageURL pointer")
	}
	if (*User)(nil).Clone() != nil {
		t.Fatal("nil clone must be nil")
	}
}

func TestBadRequestError(t *testing.T) {
	err := fmt.Errorf("signup: %w", NewBadRequest("Email address already in use."))
	if !IsBadRequest(err) {
		t.Fatal("expected IsBadRequest on wrapped error")
	}
	if IsBadRequest(errors.New("x")) {
		t.Fatal("plain error is not a bad request")
	}
	if got := NewBadRequest("Sorry! We've got an Unauthorized Redirect URI (%s) and can't proceed with the authentication", "http://evil").Error(); got != "Sorry! We've got an Unauthorized Redirect URI (http://evil) and can't proceed with the authentication" {
		t.Fatalf("got %q", got)
	}
}
