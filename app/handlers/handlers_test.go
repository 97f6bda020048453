package handlers

import (
	"strings"
	"testing"

	"github.com/quillhub/quillhub/app/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Username: "writer_one",
		Fullname: "Writer One",
		Email:    "writer@example.com",
		Password: "CorrectHorse9",
	}
}

func TestUsernameFormat(t *testing.T) {
	h := newBaseHandler()

	t.Run("AcceptsAlphanumericAndUnderscore", func(t *testing.T) {
		for _, username := range []string{
			"Alice",
			"9lives",
			"JohnDoe_1",
			"writer_one",
			"_leading",
			"ALLCAPS",
		} {
			req := validRegisterRequest()
			req.Username = username
			assert.NoError(t, h.validator.Struct(&req), "username %q", username)
		}
	})

	t.Run("RejectsOtherCharacters", func(t *testing.T) {
		for _, username := range []string{
			"bad-dash",
			"has space",
			"dot.ted",
			"emojié",
		} {
			req := validRegisterRequest()
			req.Username = username
			assert.Error(t, h.validator.Struct(&req), "username %q", username)
		}
	})

	t.Run("LengthBounds", func(t *testing.T) {
		req := validRegisterRequest()
		req.Username = "ab"
		assert.Error(t, h.validator.Struct(&req))

		req.Username = strings.Repeat("a", 31)
		assert.Error(t, h.validator.Struct(&req))

		req.Username = strings.Repeat("a", 30)
		assert.NoError(t, h.validator.Struct(&req))
	})
}

// Request bounds must not exceed the column sizes, or a validator-approved
// payload dies at storage instead of coming back as a 400.
func TestRegisterRequestBoundsMatchColumns(t *testing.T) {
	h := newBaseHandler()

	t.Run("Fullname", func(t *testing.T) {
		req := validRegisterRequest()
		req.Fullname = strings.Repeat("f", 30)
		require.NoError(t, h.validator.Struct(&req))

		req.Fullname = strings.Repeat("f", 31)
		assert.Error(t, h.validator.Struct(&req))
	})

	t.Run("Avatar", func(t *testing.T) {
		long := "https://cdn.example.com/" + strings.Repeat("a", 200)
		req := validRegisterRequest()
		req.Avatar = &long
		assert.Error(t, h.validator.Struct(&req))

		ok := "https://cdn.example.com/avatar.png"
		req.Avatar = &ok
		assert.NoError(t, h.validator.Struct(&req))
	})

	t.Run("UpdateUserMirrorsBounds", func(t *testing.T) {
		long := strings.Repeat("f", 31)
		update := dto.UpdateUserRequest{Fullname: &long}
		assert.Error(t, h.validator.Struct(&update))
	})
}
