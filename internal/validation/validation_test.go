package validation_test

import (
	"testing"

	"dubon/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{name: "valid", password: "Passw0rd!"},
		{name: "too short", password: "Pa0!", wantErr: "at least 8"},
		{name: "no uppercase", password: "passw0rd!", wantErr: "uppercase"},
		{name: "no digit", password: "Password!", wantErr: "digit"},
		{name: "no special", password: "Passw0rdX", wantErr: "special"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.CheckPassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

type sellerForm struct {
	BusinessName string `json:"businessName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
}

type signupForm struct {
	Password string `json:"password" validate:"required,strongpassword"`
}

func TestStruct_FrenchMessages(t *testing.T) {
	v := validation.New()

	err := validation.Struct(v, sellerForm{BusinessName: "Chez Ama"})
	require.Error(t, err)
	verr, ok := err.(*validation.Errors)
	require.True(t, ok)
	assert.Equal(t, "L'email est requis", verr.Message)
	assert.Equal(t, "L'email est requis", verr.Fields["email"])

	err = validation.Struct(v, sellerForm{BusinessName: "Chez Ama", Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, "L'email est invalide", err.Error())

	assert.NoError(t, validation.Struct(v, sellerForm{BusinessName: "Chez Ama", Email: "ama@example.com"}))
}

func TestStruct_StrongPasswordTag(t *testing.T) {
	v := validation.New()

	err := validation.Struct(v, signupForm{Password: "password"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Le mot de passe doit contenir au moins 8 caractères")

	assert.NoError(t, validation.Struct(v, signupForm{Password: "Passw0rd!"}))
}
