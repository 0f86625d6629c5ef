package session

import "testing"

func TestUser_Normalize(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"explicit name wins", User{Name: "Ana", FullName: "Ana Costa", Username: "ana"}, "Ana"},
		{"full name next", User{FullName: "Ana Costa", Username: "ana"}, "Ana Costa"},
		{"nome next", User{Nome: "Ana C.", Username: "ana"}, "Ana C."},
		{"username next", User{Username: "ana", Email: "ana@x.com"}, "ana"},
		{"email local part last", User{Email: "ana@x.com"}, "ana"},
		{"email without at sign", User{Email: "ana"}, "ana"},
		{"nothing to derive", User{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			u.Normalize()
			if u.Name != tt.want {
				t.Errorf("expected name %q, got %q", tt.want, u.Name)
			}
		})
	}
}

func TestUser_Normalize_NilReceiver(t *testing.T) {
	var u *User
	u.Normalize() // must not panic
}

func TestUser_Merge_PreservesMissingFields(t *testing.T) {
	u := User{ID: "1", Name: "Ana", Username: "ana", Email: "ana@x.com", Tipo: "UsuarioComum"}
	u.Merge(&User{Nome: "Ana Costa"})

	if u.Nome != "Ana Costa" {
		t.Errorf("expected merged nome, got %q", u.Nome)
	}
	if u.Email != "ana@x.com" || u.Username != "ana" || u.Tipo != "UsuarioComum" {
		t.Errorf("expected untouched fields preserved, got %+v", u)
	}
}

func TestUser_Merge_Nil(t *testing.T) {
	u := User{ID: "1"}
	u.Merge(nil)
	if u.ID != "1" {
		t.Errorf("expected unchanged user, got %+v", u)
	}
}
