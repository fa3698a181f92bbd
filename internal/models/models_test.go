package models

import "testing"

func TestRoleValid(t *testing.T) {
	cases := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleMaster, true},
		{Role(""), false},
		{Role("superuser"), false},
	}
	for _, c := range cases {
		if got := c.role.Valid(); got != c.want {
			t.Errorf("Valid(%q): got %v, want %v", c.role, got, c.want)
		}
	}
}

func TestAdminUserIsMaster(t *testing.T) {
	u := &AdminUser{Role: RoleAdmin}
	if u.IsMaster() {
		t.Error("admin role must not be master")
	}
	u.Role = RoleMaster
	if !u.IsMaster() {
		t.Error("master role must be master")
	}
}

func TestContentItemHasImage(t *testing.T) {
	c := &ContentItem{}
	if c.HasImage() {
		t.Error("nil image_filename: HasImage should be false")
	}

	empty := ""
	c.ImageFilename = &empty
	if c.HasImage() {
		t.Error("empty image_filename: HasImage should be false")
	}

	name := "photo.jpg"
	c.ImageFilename = &name
	if !c.HasImage() {
		t.Error("set image_filename: HasImage should be true")
	}
}
