package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(NewMemoryRepository(), bcrypt.MinCost)
	require.NoError(t, err)
	return svc
}

func TestCreateAndVerify(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, NewCustomer{Name: " Asha ", PhoneNumber: "9876543210", Password: "s3cret", Address: "Pune"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Asha", created.Name)
	assert.Equal(t, DefaultRole, created.Role)
	assert.NotEqual(t, []byte("s3cret"), created.PasswordHash)

	verified, err := svc.Verify(ctx, "9876543210", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, verified.ID)
}

func TestVerifyFailuresAreIndistinguishable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, NewCustomer{Name: "Asha", PhoneNumber: "9876543210", Password: "s3cret"})
	require.NoError(t, err)

	_, wrongPassword := svc.Verify(ctx, "9876543210", "nope")
	_, unknownPhone := svc.Verify(ctx, "1111111111", "s3cret")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownPhone, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownPhone.Error())
}

func TestCreateDuplicatePhoneNumber(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, NewCustomer{Name: "A", PhoneNumber: "9876543210", Password: "x"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, NewCustomer{Name: "B", PhoneNumber: "9876543210", Password: "y"})
	assert.ErrorIs(t, err, ErrDuplicatePhoneNumber)
}

func TestFindAndExists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	exists, err := svc.ExistsByPhoneNumber(ctx, "9876543210")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.FindByPhoneNumber(ctx, "9876543210")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, NewCustomer{Name: "A", PhoneNumber: "9876543210", Password: "x"})
	require.NoError(t, err)

	exists, err = svc.ExistsByPhoneNumber(ctx, "9876543210")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAuthoritiesAndPublic(t *testing.T) {
	c := Customer{ID: "id-1", Name: "Asha", PhoneNumber: "9876543210", PasswordHash: []byte("hash"), Address: "Pune"}
	assert.Equal(t, []string{"ROLE_CUSTOMER"}, c.Authorities())

	c.Role = "admin"
	assert.Equal(t, []string{"ROLE_ADMIN"}, c.Authorities())

	assert.Equal(t, Public{CustomerID: "id-1", Name: "Asha", PhoneNumber: "9876543210", Address: "Pune"}, c.Public())
}
