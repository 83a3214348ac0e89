package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/congo-pay/customer_auth/internal/customer"
	"github.com/congo-pay/customer_auth/internal/metrics"
	"github.com/congo-pay/customer_auth/internal/notification"
	"github.com/congo-pay/customer_auth/internal/token"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification.Message
}

func (n *recordingNotifier) Send(_ context.Context, m notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, m)
	return nil
}

type failingVerifier struct{ err error }

func (f failingVerifier) Verify(context.Context, string, string) (customer.Customer, error) {
	return customer.Customer{}, f.err
}

type fixture struct {
	svc       *Service
	customers *customer.Service
	codec     *token.Codec
	notifier  *recordingNotifier
	metrics   *metrics.Auth
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	customers, err := customer.NewService(customer.NewMemoryRepository(), bcrypt.MinCost)
	require.NoError(t, err)
	codec, err := token.NewCodec(testSecret, time.Hour)
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())

	svc := NewService(Deps{
		Verifier:  customers,
		Customers: customers,
		Tokens:    codec,
		Notifier:  notifier,
		Metrics:   m,
	})
	return fixture{svc: svc, customers: customers, codec: codec, notifier: notifier, metrics: m}
}

func (f fixture) register(t *testing.T, phone, password string) RegistrationResult {
	t.Helper()
	res, err := f.svc.Register(context.Background(), RegisterRequest{Name: "Asha", PhoneNumber: phone, Password: password, Address: "Pune"})
	require.NoError(t, err)
	return res
}

func TestRegisterSucceeds(t *testing.T) {
	f := newFixture(t)

	res := f.register(t, "9876543210", "s3cret")
	assert.Equal(t, http.StatusCreated, res.Status)
	assert.Equal(t, registrationSucceeded, res.Message)
	assert.Equal(t, "9876543210", res.Customer.PhoneNumber)
	assert.NotEmpty(t, res.Customer.CustomerID)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notification.KindCustomerRegistered, f.notifier.sent[0].Kind)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Registrations.WithLabelValues(metrics.OutcomeSuccess)))
}

func TestRegisterInvalidPhoneNumbers(t *testing.T) {
	f := newFixture(t)
	for _, phone := range []string{"12345", "12345abcde", "", "98765432101", "٩٨٧٦٥٤٣٢١٠"} {
		_, err := f.svc.Register(context.Background(), RegisterRequest{Name: "A", PhoneNumber: phone, Password: "x"})
		assert.ErrorIs(t, err, ErrInvalidPhoneNumber, phone)
	}
	assert.Empty(t, f.notifier.sent)
}

func TestRegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	f.register(t, "9876543210", "s3cret")

	_, err := f.svc.Register(context.Background(), RegisterRequest{Name: "B", PhoneNumber: "9876543210", Password: "other"})
	assert.ErrorIs(t, err, ErrDuplicateCustomer)
}

func TestRegisterDuplicateCheckedBeforeShape(t *testing.T) {
	repo := customer.NewMemoryRepository()
	_, err := repo.Create(context.Background(), customer.Customer{ID: "legacy", PhoneNumber: "12345"})
	require.NoError(t, err)
	customers, err := customer.NewService(repo, bcrypt.MinCost)
	require.NoError(t, err)
	codec, err := token.NewCodec(testSecret, time.Hour)
	require.NoError(t, err)
	svc := NewService(Deps{Verifier: customers, Customers: customers, Tokens: codec})

	_, err = svc.Register(context.Background(), RegisterRequest{Name: "A", PhoneNumber: "12345", Password: "x"})
	assert.ErrorIs(t, err, ErrDuplicateCustomer)
}

func TestLoginIssuesTokenForSubject(t *testing.T) {
	f := newFixture(t)
	f.register(t, "9876543210", "s3cret")

	res, err := f.svc.Login(context.Background(), LoginRequest{PhoneNumber: "9876543210", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, loginSucceeded, res.Message)
	assert.Equal(t, "Asha", res.Name)
	assert.Equal(t, "9876543210", res.PhoneNumber)
	assert.Equal(t, "Pune", res.Customer.Address)

	subject, err := f.codec.ExtractSubject(res.JWTToken)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", subject)
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	f := newFixture(t)
	f.register(t, "9876543210", "s3cret")

	_, wrongPassword := f.svc.Login(context.Background(), LoginRequest{PhoneNumber: "9876543210", Password: "bad"})
	_, unknownPhone := f.svc.Login(context.Background(), LoginRequest{PhoneNumber: "0000000000", Password: "s3cret"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidLoginCredentials)
	assert.ErrorIs(t, unknownPhone, ErrInvalidLoginCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownPhone.Error())
	assert.Equal(t, 1, testutil.CollectAndCount(f.metrics.LoginDuration), "both attempts land in the failure series")
}

func TestLoginStorageFailureIsNotCredentialFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("connection refused")
	svc := NewService(Deps{Verifier: failingVerifier{err: boom}, Customers: f.customers, Tokens: f.codec})

	_, err := svc.Login(context.Background(), LoginRequest{PhoneNumber: "9876543210", Password: "x"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidLoginCredentials)
}

func TestRegisterDuplicateWinsOverBodyShape(t *testing.T) {
	f := newFixture(t)
	f.register(t, "9876543210", "s3cret")

	_, err := f.svc.Register(context.Background(), RegisterRequest{PhoneNumber: "9876543210"})
	assert.ErrorIs(t, err, ErrDuplicateCustomer)
}

func TestRegisterBodyShape(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), RegisterRequest{PhoneNumber: "9876543210", Password: "s3cret"})
	assert.ErrorIs(t, err, ErrInvalidRegistration)
	assert.ErrorContains(t, err, "name")

	for _, password := range []string{strings.Repeat("p", 73), strings.Repeat("é", 37)} {
		_, err = f.svc.Register(context.Background(), RegisterRequest{Name: "Asha", PhoneNumber: "9876543210", Password: password})
		assert.ErrorIs(t, err, ErrInvalidRegistration)
		assert.ErrorContains(t, err, "password")
	}
	assert.Empty(t, f.notifier.sent)

	res := f.register(t, "9876543210", strings.Repeat("p", 72))
	assert.Equal(t, http.StatusCreated, res.Status)

	_, err = f.svc.Login(context.Background(), LoginRequest{PhoneNumber: "9876543210", Password: strings.Repeat("p", 72)})
	require.NoError(t, err)
}
