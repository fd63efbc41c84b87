package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/ticketdesk/pkg/util"
)

func TestValidateCreateTicketRequest(t *testing.T) {
	assert.NoError(t, Validate(CreateTicketRequest{Title: "broken build"}))

	err := Validate(CreateTicketRequest{})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "Title")
}

func TestValidateRegisterRequest(t *testing.T) {
	valid := RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "long-enough"}
	assert.NoError(t, Validate(valid))

	badEmail := valid
	badEmail.Email = "not-an-email"
	assert.Error(t, Validate(badEmail))

	shortPassword := valid
	shortPassword.Password = "short"
	assert.Error(t, Validate(shortPassword))
}

func TestValidateChangeRoleRequest(t *testing.T) {
	assert.NoError(t, Validate(ChangeRoleRequest{Role: "agent"}))
	assert.Error(t, Validate(ChangeRoleRequest{Role: "superuser"}))
}
