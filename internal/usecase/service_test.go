package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ticket-storefront/internal/booking"
	"ticket-storefront/internal/catalog"
	"ticket-storefront/internal/data/repository"
	"ticket-storefront/internal/dto/request"
	"ticket-storefront/internal/dto/response"
	"ticket-storefront/internal/identity"
	"ticket-storefront/internal/notify"
	"ticket-storefront/internal/seatgrid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const declinedCard = "4000000000000002"

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.BookingConfirmedEvent
}

func (n *recordingNotifier) BookingConfirmed(_ context.Context, ev notify.BookingConfirmedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

func (n *recordingNotifier) Close() error { return nil }

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type fixture struct {
	svc      *Service
	gate     *identity.LocalProvider
	notifier *recordingNotifier
}

func newFixture(t *testing.T, delay time.Duration) *fixture {
	t.Helper()

	cat, err := catalog.Load(catalog.DefaultRows())
	require.NoError(t, err)

	gate := identity.NewLocalProvider(
		repository.NewMemoryUserRepository(),
		repository.NewMemorySessionRepository(),
		identity.LocalConfig{Secret: "test-secret", SessionTTL: time.Hour, BcryptCost: 4},
		zap.NewNop(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	notifier := &recordingNotifier{}
	svc := NewService(ctx, Deps{
		Catalog:  cat,
		Gate:     gate,
		Composer: booking.NewComposer(delay, delay+5*time.Second, booking.NewSimulatedGateway([]string{declinedCard})),
		Notifier: notifier,
	}, zap.NewNop())

	t.Cleanup(func() {
		cancel()
		svc.Close()
	})

	return &fixture{svc: svc, gate: gate, notifier: notifier}
}

func (f *fixture) signIn(t *testing.T, email string) *identity.Session {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.svc.Auth.SignUp(ctx, &request.SignUpRequest{
		FullName: "Test Visitor",
		Email:    email,
		Password: "secret123",
	}))
	resp, err := f.svc.Auth.SignIn(ctx, &request.SignInRequest{Email: email, Password: "secret123"})
	require.NoError(t, err)

	sess, err := f.gate.CurrentSession(ctx, resp.Token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	return sess
}

func checkout(card string) *request.CheckoutRequest {
	return &request.CheckoutRequest{Form: booking.Form{
		Name:       "Test Visitor",
		Email:      "visitor@example.com",
		Phone:      "555-0100",
		CardNumber: card,
		Expiry:     "12/30",
		CVV:        "123",
	}}
}

func waitSettled(t *testing.T, f *fixture, sess *identity.Session, token string) string {
	t.Helper()
	var status string
	require.Eventually(t, func() bool {
		resp, err := f.svc.Booking.GetAttempt(context.Background(), sess, token)
		if err != nil {
			return false
		}
		status = resp.Status
		if status == string(booking.StatusPending) {
			return false
		}
		v := f.svc.views.get(sess)
		v.mu.Lock()
		defer v.mu.Unlock()
		return !v.pending()
	}, 3*time.Second, 5*time.Millisecond)
	return status
}

func TestSignUp_ValidationMessages(t *testing.T) {
	f := newFixture(t, 0)

	tests := []struct {
		name string
		req  request.SignUpRequest
		want string
	}{
		{"short name after trim", request.SignUpRequest{FullName: "  A  ", Email: "bad", Password: ""}, "Name must be at least 2 characters"},
		{"bad email", request.SignUpRequest{FullName: "Al", Email: "not-an-email", Password: ""}, "Please enter a valid email address"},
		{"short password", request.SignUpRequest{FullName: "Al", Email: " al@example.com ", Password: "12345"}, "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.Auth.SignUp(context.Background(), &tt.req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Message)
		})
	}
}

func TestSignIn_ValidationMessages(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.svc.Auth.SignIn(context.Background(), &request.SignInRequest{Email: "nope", Password: "x"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please enter a valid email address", verr.Message)

	_, err = f.svc.Auth.SignIn(context.Background(), &request.SignInRequest{Email: "a@example.com"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Password is required", verr.Message)
}

func TestAuth_ProviderErrorMapping(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.signIn(t, "taken@example.com")

	_, err := f.svc.Auth.SignIn(ctx, &request.SignInRequest{Email: "taken@example.com", Password: "wrong-pass"})
	var aerr *AuthError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, AuthInvalidCredentials, aerr.Kind)
	assert.Equal(t, "Invalid email or password. Please check your credentials and try again.", aerr.Message)

	err = f.svc.Auth.SignUp(ctx, &request.SignUpRequest{FullName: "Dup", Email: "taken@example.com", Password: "secret123"})
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, AuthAlreadyRegistered, aerr.Kind)
	assert.Equal(t, "An account with this email already exists. Please sign in instead.", aerr.Message)
}

type failingGate struct {
	identity.Gate
	err error
}

func (g failingGate) SignIn(context.Context, string, string) (*identity.Session, error) {
	return nil, g.err
}

func TestAuth_OtherProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind AuthErrorKind
		want string
	}{
		{"provider message verbatim", &identity.ProviderError{Message: "Email not confirmed"}, AuthProvider, "Email not confirmed"},
		{"credentials with detail", &identity.ProviderError{Message: "AuthApiError: Invalid login credentials (400)"}, AuthInvalidCredentials, "Invalid email or password. Please check your credentials and try again."},
		{"registered with detail", &identity.ProviderError{Message: "User already registered for this project"}, AuthAlreadyRegistered, "An account with this email already exists. Please sign in instead."},
		{"anything else", errors.New("connection refused"), AuthUnexpected, "An unexpected error occurred. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(failingGate{err: tt.err}, zap.NewNop())
			_, err := svc.SignIn(context.Background(), &request.SignInRequest{Email: "a@example.com", Password: "x"})

			var aerr *AuthError
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, tt.kind, aerr.Kind)
			assert.Equal(t, tt.want, aerr.Message)
		})
	}
}

func TestListEvents(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	all, err := f.svc.Catalog.ListEvents(ctx, &request.EventQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Count)

	byVenue, err := f.svc.Catalog.ListEvents(ctx, &request.EventQuery{Q: "madison"})
	require.NoError(t, err)
	require.Len(t, byVenue.Events, 1)
	assert.Equal(t, "Rock Legends Live", byVenue.Events[0].Title)

	sports, err := f.svc.Catalog.ListEvents(ctx, &request.EventQuery{Category: "Sports"})
	require.NoError(t, err)
	require.Len(t, sports.Events, 1)
	assert.Equal(t, "NBA Finals Game 7", sports.Events[0].Title)

	located, err := f.svc.Catalog.ListEvents(ctx, &request.EventQuery{Location: "miami"})
	require.NoError(t, err)
	assert.Equal(t, 4, located.Count, "location does not narrow results")

	_, err = f.svc.Catalog.ListEvents(ctx, &request.EventQuery{Category: "opera"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "category")

	_, err = f.svc.Catalog.GetEvent(ctx, "404")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestSeatMap_Flow(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	sess := f.signIn(t, "seats@example.com")

	_, err := f.svc.SeatMap.Current(ctx, sess)
	assert.ErrorIs(t, err, ErrNoSeatMap)

	_, err = f.svc.SeatMap.Open(ctx, sess, "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)

	opened, err := f.svc.SeatMap.Open(ctx, sess, "1")
	require.NoError(t, err)
	assert.Len(t, opened.Seats, 96)
	assert.False(t, opened.CanProceed)

	_, err = f.svc.SeatMap.Proceed(ctx, sess)
	assert.ErrorIs(t, err, booking.ErrNoSeatsSelected)

	sel, err := f.svc.SeatMap.Toggle(ctx, sess, "a5")
	require.NoError(t, err)
	assert.Empty(t, sel.Selected)
	assert.Equal(t, "unavailable", sel.Status)

	sel, err = f.svc.SeatMap.Toggle(ctx, sess, "B1")
	require.NoError(t, err)
	assert.Equal(t, []string{"B1"}, sel.Selected)
	assert.Equal(t, 89.0, sel.TotalPrice)

	_, err = f.svc.SeatMap.Toggle(ctx, sess, "Z9")
	assert.ErrorIs(t, err, seatgrid.ErrUnknownSeat)

	summary, err := f.svc.SeatMap.Proceed(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1"}, summary.Seats)
	assert.Equal(t, 89.0, summary.TotalPrice)

	reopened, err := f.svc.SeatMap.Open(ctx, sess, "2")
	require.NoError(t, err)
	assert.Empty(t, reopened.Selected, "opening another event clears the selection")

	require.NoError(t, f.svc.SeatMap.Close(ctx, sess))
	_, err = f.svc.SeatMap.Current(ctx, sess)
	assert.ErrorIs(t, err, ErrNoSeatMap)
}

func TestBooking_Confirmed(t *testing.T) {
	f := newFixture(t, 20*time.Millisecond)
	ctx := context.Background()
	sess := f.signIn(t, "book@example.com")

	_, err := f.svc.SeatMap.Open(ctx, sess, "1")
	require.NoError(t, err)
	for _, seat := range []string{"B2", "B1"} {
		_, err = f.svc.SeatMap.Toggle(ctx, sess, seat)
		require.NoError(t, err)
	}

	attempt, err := f.svc.Booking.Submit(ctx, sess, checkout("4242424242424242"))
	require.NoError(t, err)
	assert.Equal(t, "pending", attempt.Status)

	_, err = f.svc.Booking.Submit(ctx, sess, checkout("4242424242424242"))
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	assert.Equal(t, "confirmed", waitSettled(t, f, sess, attempt.AttemptToken))

	var ticket *response.TicketResponse
	require.Eventually(t, func() bool {
		ticket, err = f.svc.Booking.Ticket(ctx, sess)
		return err == nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"B1", "B2"}, ticket.Seats)
	assert.Equal(t, 178.0, ticket.TotalPrice)
	assert.Equal(t, ticket.ID+"|1|B1,B2", ticket.QRPayload)

	_, err = f.svc.SeatMap.Current(ctx, sess)
	assert.ErrorIs(t, err, ErrNoSeatMap, "the seat map closes once the ticket is shown")

	require.Eventually(t, func() bool { return f.notifier.count() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, f.svc.Booking.ClearTicket(ctx, sess))
	_, err = f.svc.Booking.Ticket(ctx, sess)
	assert.ErrorIs(t, err, ErrNoTicket)
}

func TestBooking_ValidationAndPreconditions(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	sess := f.signIn(t, "pre@example.com")

	_, err := f.svc.Booking.Submit(ctx, sess, checkout("4242424242424242"))
	assert.ErrorIs(t, err, ErrNoSeatMap)

	_, err = f.svc.SeatMap.Open(ctx, sess, "1")
	require.NoError(t, err)

	_, err = f.svc.Booking.Submit(ctx, sess, checkout("4242424242424242"))
	assert.ErrorIs(t, err, booking.ErrNoSeatsSelected)

	incomplete := checkout("4242424242424242")
	incomplete.Phone = ""
	_, err = f.svc.Booking.Submit(ctx, sess, incomplete)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "phone")
}

func TestBooking_CancelledAttemptNeverShowsTicket(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()
	sess := f.signIn(t, "cancel@example.com")

	_, err := f.svc.SeatMap.Open(ctx, sess, "2")
	require.NoError(t, err)
	_, err = f.svc.SeatMap.Toggle(ctx, sess, "D4")
	require.NoError(t, err)

	attempt, err := f.svc.Booking.Submit(ctx, sess, checkout("4242424242424242"))
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	cancelled, err := f.svc.Booking.CancelAttempt(waitCtx, sess, attempt.AttemptToken)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	require.NotNil(t, cancelled.Error)
	assert.Equal(t, "submission_cancelled", cancelled.Error.Kind)
	assert.False(t, cancelled.Error.Recoverable)

	_, err = f.svc.Booking.Ticket(ctx, sess)
	assert.ErrorIs(t, err, ErrNoTicket)
	assert.Zero(t, f.notifier.count())

	_, err = f.svc.Booking.CancelAttempt(waitCtx, sess, "unknown")
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestBooking_StaleResolutionDropped(t *testing.T) {
	f := newFixture(t, 30*time.Millisecond)
	ctx := context.Background()
	sess := f.signIn(t, "stale@example.com")

	_, err := f.svc.SeatMap.Open(ctx, sess, "1")
	require.NoError(t, err)
	_, err = f.svc.SeatMap.Toggle(ctx, sess, "A1")
	require.NoError(t, err)
	_, err = f.svc.Booking.Submit(ctx, sess, checkout("4242424242424242"))
	require.NoError(t, err)

	v := f.svc.views.get(sess)
	v.mu.Lock()
	a := v.current
	v.mu.Unlock()
	require.NotNil(t, a)

	_, err = f.svc.SeatMap.Open(ctx, sess, "3")
	require.NoError(t, err)

	select {
	case <-a.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("attempt did not settle")
	}

	_, err = f.svc.Booking.Ticket(ctx, sess)
	assert.ErrorIs(t, err, ErrNoTicket)
	assert.Zero(t, f.notifier.count())
}

func TestBooking_DeclineIsRecoverable(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	sess := f.signIn(t, "decline@example.com")

	_, err := f.svc.SeatMap.Open(ctx, sess, "4")
	require.NoError(t, err)
	_, err = f.svc.SeatMap.Toggle(ctx, sess, "H12")
	require.NoError(t, err)

	attempt, err := f.svc.Booking.Submit(ctx, sess, checkout(declinedCard))
	require.NoError(t, err)
	assert.Equal(t, "failed", waitSettled(t, f, sess, attempt.AttemptToken))

	resp, err := f.svc.Booking.GetAttempt(ctx, sess, attempt.AttemptToken)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "payment_declined", resp.Error.Kind)
	assert.True(t, resp.Error.Recoverable)

	seatMap, err := f.svc.SeatMap.Current(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, []string{"H12"}, seatMap.Selected, "selection survives a decline")

	retry, err := f.svc.Booking.Submit(ctx, sess, checkout("4242424242424242"))
	require.NoError(t, err)
	assert.Equal(t, "confirmed", waitSettled(t, f, sess, retry.AttemptToken))
}

func TestSignOut_DropsViewState(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()
	sess := f.signIn(t, "leave@example.com")

	_, err := f.svc.SeatMap.Open(ctx, sess, "1")
	require.NoError(t, err)
	_, err = f.svc.SeatMap.Toggle(ctx, sess, "C1")
	require.NoError(t, err)
	_, err = f.svc.Booking.Submit(ctx, sess, checkout("4242424242424242"))
	require.NoError(t, err)

	v := f.svc.views.get(sess)
	v.mu.Lock()
	a := v.current
	v.mu.Unlock()
	require.NotNil(t, a)

	require.NoError(t, f.svc.Auth.SignOut(ctx, sess))
	assert.Zero(t, f.svc.views.len())

	select {
	case <-a.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("attempt was not cancelled")
	}
	assert.Equal(t, booking.StatusCancelled, a.Snapshot().Status)

	current, err := f.gate.CurrentSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, current)
}
