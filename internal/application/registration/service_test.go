package registration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Fokku/flightbooker/internal/application/verification"
	"github.com/Fokku/flightbooker/internal/domain"
)

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) Create(ctx context.Context, username, email, passwordHash string, emailVerified bool) (*domain.User, error) {
	args := m.Called(ctx, username, email, passwordHash, emailVerified)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Issue(ctx context.Context, subject domain.Subject, email string, purpose domain.VerificationPurpose) error {
	return m.Called(ctx, subject, email, purpose).Error(0)
}

func (m *mockVerifier) Verify(ctx context.Context, subject domain.Subject, email, code string, purpose domain.VerificationPurpose) (verification.Outcome, error) {
	args := m.Called(ctx, subject, email, code, purpose)
	return args.Get(0).(verification.Outcome), args.Error(1)
}

func (m *mockVerifier) RecoverPendingSubject(ctx context.Context, email string) (domain.PendingUser, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.PendingUser), args.Error(1)
}

func (m *mockVerifier) Discard(ctx context.Context, subject domain.Subject, email string, purpose domain.VerificationPurpose) error {
	return m.Called(ctx, subject, email, purpose).Error(0)
}

func (m *mockVerifier) LatestCode(ctx context.Context, email string, purpose domain.VerificationPurpose) (*verification.DevCode, error) {
	args := m.Called(ctx, email, purpose)
	if dc := args.Get(0); dc != nil {
		return dc.(*verification.DevCode), args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeSession is an in-memory stand-in for the HTTP session slot.
type fakeSession struct {
	slot *domain.PreRegistration
}

func (f *fakeSession) PreRegistration() *domain.PreRegistration     { return f.slot }
func (f *fakeSession) SetPreRegistration(p *domain.PreRegistration) { f.slot = p }
func (f *fakeSession) ClearPreRegistration()                        { f.slot = nil }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStart_HappyPath_SetsSlotAndIssues(t *testing.T) {
	users := new(mockUsers)
	verifier := new(mockVerifier)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewServiceWithClock(users, verifier, fixedClock(now))

	users.On("GetByUsername", mock.Anything, "jdoe").Return(nil, domain.ErrNotFound)
	users.On("GetByEmail", mock.Anything, "j@x.com").Return(nil, domain.ErrNotFound)
	verifier.On("Issue", mock.Anything, mock.MatchedBy(func(s domain.Subject) bool {
		return len(s.StorageID()) > len(domain.PendingIDPrefix)
	}), "j@x.com", domain.PurposePreRegistration).Return(nil)

	sess := &fakeSession{}
	require.NoError(t, svc.Start(context.Background(), sess, StartRequest{Email: "j@x.com", Username: "jdoe"}))

	require.NotNil(t, sess.slot)
	assert.Equal(t, "j@x.com", sess.slot.Email)
	assert.Equal(t, "jdoe", sess.slot.Username)
	assert.Equal(t, now.Unix(), sess.slot.Timestamp)
	assert.False(t, sess.slot.Verified)
	assert.Contains(t, sess.slot.TempUserID, domain.PendingIDPrefix)
	verifier.AssertExpectations(t)
}

func TestStart_EmailTaken(t *testing.T) {
	users := new(mockUsers)
	verifier := new(mockVerifier)
	svc := NewService(users, verifier)

	users.On("GetByEmail", mock.Anything, "j@x.com").Return(&domain.User{ID: 7}, nil)

	sess := &fakeSession{}
	err := svc.Start(context.Background(), sess, StartRequest{Email: "j@x.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Email already registered. Please use a different email.", err.Error())
	assert.Nil(t, sess.slot)
	verifier.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStart_UsernameTaken(t *testing.T) {
	users := new(mockUsers)
	verifier := new(mockVerifier)
	svc := NewService(users, verifier)

	users.On("GetByUsername", mock.Anything, "jdoe").Return(&domain.User{ID: 7}, nil)

	err := svc.Start(context.Background(), &fakeSession{}, StartRequest{Email: "j@x.com", Username: "jdoe"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Username already exists. Please choose a different username.", err.Error())
}

func TestVerifyCode_WithSessionSlot_MarksVerified(t *testing.T) {
	users := new(mockUsers)
	verifier := new(mockVerifier)
	svc := NewService(users, verifier)

	sess := &fakeSession{slot: &domain.PreRegistration{
		TempUserID: "pre_abc", Email: "j@x.com", Timestamp: time.Now().Unix(),
	}}
	verifier.On("Verify", mock.Anything, domain.PendingUser("pre_abc"), "j@x.com", "123456", domain.PurposePreRegistration).
		Return(verification.OutcomeVerified, nil)

	require.NoError(t, svc.VerifyCode(context.Background(), sess, VerifyRequest{Email: "j@x.com", OTP: "123456"}))
	assert.True(t, sess.slot.Verified)
	assert.Equal(t, "123456", sess.slot.OTP)
	verifier.AssertNotCalled(t, "RecoverPendingSubject", mock.Anything, mock.Anything)
}

func TestVerifyCode_LostSession_RecoversSubjectFromStore(t *testing.T) {
	users := new(mockUsers)
	verifier := new(mockVerifier)
	svc := NewService(users, verifier)

	sess := &fakeSession{}
	verifier.On("RecoverPendingSubject", mock.Anything, "j@x.com").
		Return(domain.PendingUser("pre_recovered"), nil)
	verifier.On("Verify", mock.Anything, domain.PendingUser("pre_recovered"), "j@x.com", "123456", domain.PurposePreRegistration).
		Return(verification.OutcomeVerified, nil)

	require.NoError(t, svc.VerifyCode(context.Background(), sess, VerifyRequest{Email: "j@x.com", OTP: "123456"}))
	require.NotNil(t, sess.slot)
	assert.Equal(t, "pre_recovered", sess.slot.TempUserID)
	assert.True(t, sess.slot.Verified)
}

func TestVerifyCode_MismatchedEmail_RecoversForSubmittedEmail(t *testing.T) {
	users := new(mockUsers)
	verifier := new(mockVerifier)
	svc := NewService(users, verifier)

	sess := &fakeSession{slot: &domain.PreRegistration{
		TempUserID: "pre_other", Email: "other@x.com", Timestamp: time.Now().Unix(),
	}}
	verifier.On("RecoverPendingSubject", mock.Anything, "j@x.com").
		Return(domain.PendingUser("pre_mine"), nil)
	verifier.On("Verify", mock.Anything, domain.PendingUser("pre_mine"), "j@x.com", "123456", domain.PurposePreRegistration).
		Return(verification.OutcomeVerified, nil)

	require.NoError(t, svc.VerifyCode(context.Background(), sess, VerifyRequest{Email: "j@x.com", OTP: "123456"}))
	assert.Equal(t, "pre_mine", sess.slot.TempUserID)
	assert.Equal(t, "j@x.com", sess.slot.Email)
}

func TestVerifyCode_NoRecordAnywhere(t *testing.T) {
	users := new(mockUsers)
	verifier := new(mockVerifier)
	svc := NewService(users, verifier)

	verifier.On("RecoverPendingSubject", mock.Anything, "j@x.com").
		Return(domain.PendingUser(""), domain.E(domain.ErrNotFound, "No registration in progress for this email"))

	err := svc.VerifyCode(context.Background(), &fakeSession{}, VerifyRequest{Email: "j@x.com", OTP: "123456"})
	require.Error(t, err)
	assert.Equal(t, "No registration in progress for this email", err.Error())
}

func TestVerifyCode_ExpiredCode_SlotStaysUnverified(t *testing.T) {
	users := new(mockUsers)
	verifier := new(mockVerifier)
	svc := NewService(users, verifier)

	sess := &fakeSession{slot: &domain.PreRegistration{
		TempUserID: "pre_abc", Email: "j@x.com", Timestamp: time.Now().Unix(),
	}}
	verifier.On("Verify", mock.Anything, domain.PendingUser("pre_abc"), "j@x.com", "123456", domain.PurposePreRegistration).
		Return(verification.OutcomeExpired, nil)

	err := svc.VerifyCode(context.Background(), sess, VerifyRequest{Email: "j@x.com", OTP: "123456"})
	require.Error(t, err)
	assert.Equal(t, "Verification code has expired", err.Error())
	assert.False(t, sess.slot.Verified)
}

func TestResend_ReusesLiveSlotSubject(t *testing.T) {
	users := new(mockUsers)
	verifier := new(mockVerifier)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewServiceWithClock(users, verifier, fixedClock(now))

	sess := &fakeSession{slot: &domain.PreRegistration{
		TempUserID: "pre_abc", Email: "j@x.com", Timestamp: now.Add(-10 * time.Minute).Unix(),
	}}
	verifier.On("Discard", mock.Anything, domain.PendingUser("pre_abc"), "j@x.com", domain.PurposePreRegistration).Return(nil)
	verifier.On("Issue", mock.Anything, domain.PendingUser("pre_abc"), "j@x.com", domain.PurposePreRegistration).Return(nil)

	require.NoError(t, svc.Resend(context.Background(), sess, ResendRequest{Email: "j@x.com"}))
	assert.Equal(t, "pre_abc", sess.slot.TempUserID)
	verifier.AssertExpectations(t)
}

func TestResend_ExpiredSlot_MintsNewSubject(t *testing.T) {
	users := new(mockUsers)
	verifier := new(mockVerifier)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewServiceWithClock(users, verifier, fixedClock(now))

	sess := &fakeSession{slot: &domain.PreRegistration{
		TempUserID: "pre_old", Email: "j@x.com", Timestamp: now.Add(-2 * time.Hour).Unix(),
	}}
	verifier.On("Discard", mock.Anything, mock.Anything, "j@x.com", domain.PurposePreRegistration).Return(nil)
	verifier.On("Issue", mock.Anything, mock.Anything, "j@x.com", domain.PurposePreRegistration).Return(nil)

	require.NoError(t, svc.Resend(context.Background(), sess, ResendRequest{Email: "j@x.com"}))
	assert.NotEqual(t, "pre_old", sess.slot.TempUserID)
	assert.Equal(t, now.Unix(), sess.slot.Timestamp)
}

func TestResend_DiscardFailureStillIssues(t *testing.T) {
	users := new(mockUsers)
	verifier := new(mockVerifier)
	svc := NewService(users, verifier)

	sess := &fakeSession{slot: &domain.PreRegistration{
		TempUserID: "pre_abc", Email: "j@x.com", Timestamp: time.Now().Unix(),
	}}
	verifier.On("Discard", mock.Anything, domain.PendingUser("pre_abc"), "j@x.com", domain.PurposePreRegistration).
		Return(errors.New("db down"))
	verifier.On("Issue", mock.Anything, domain.PendingUser("pre_abc"), "j@x.com", domain.PurposePreRegistration).Return(nil)

	require.NoError(t, svc.Resend(context.Background(), sess, ResendRequest{Email: "j@x.com"}))
	verifier.AssertExpectations(t)
}

func completeReq() CompleteRequest {
	return CompleteRequest{Username: "jdoe", Email: "j@x.com", Password: "hunter2hunter2", OTP: "123456"}
}

func verifiedSlot(now time.Time) *domain.PreRegistration {
	return &domain.PreRegistration{
		TempUserID: "pre_abc",
		Email:      "j@x.com",
		Username:   "jdoe",
		Timestamp:  now.Add(-5 * time.Minute).Unix(),
		Verified:   true,
		OTP:        "123456",
	}
}

func TestComplete_GuardOrder(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		slot *domain.PreRegistration
		req  CompleteRequest
		msg  string
	}{
		{"no session", nil, completeReq(), "Invalid or expired verification session"},
		{
			"email mismatch",
			verifiedSlot(now),
			CompleteRequest{Username: "jdoe", Email: "other@x.com", Password: "hunter2hunter2", OTP: "123456"},
			"Email mismatch in verification session",
		},
		{
			"not verified",
			&domain.PreRegistration{TempUserID: "pre_abc", Email: "j@x.com", Timestamp: now.Unix()},
			completeReq(),
			"Email verification incomplete",
		},
		{
			"session expired",
			&domain.PreRegistration{
				TempUserID: "pre_abc", Email: "j@x.com", Verified: true, OTP: "123456",
				Timestamp: now.Add(-2 * time.Hour).Unix(),
			},
			completeReq(),
			"Verification session has expired",
		},
		{
			"otp mismatch",
			verifiedSlot(now),
			CompleteRequest{Username: "jdoe", Email: "j@x.com", Password: "hunter2hunter2", OTP: "999999"},
			"Invalid verification code",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := new(mockUsers)
			verifier := new(mockVerifier)
			svc := NewServiceWithClock(users, verifier, fixedClock(now))

			sess := &fakeSession{slot: tc.slot}
			u, err := svc.Complete(context.Background(), sess, tc.req)
			assert.Nil(t, u)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
			assert.Equal(t, tc.msg, err.Error())
			users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestComplete_CreatesVerifiedUserAndClearsSlot(t *testing.T) {
	users := new(mockUsers)
	verifier := new(mockVerifier)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewServiceWithClock(users, verifier, fixedClock(now))

	users.On("GetByEmail", mock.Anything, "j@x.com").Return(nil, domain.ErrNotFound)
	var storedHash string
	users.On("Create", mock.Anything, "jdoe", "j@x.com", mock.AnythingOfType("string"), true).
		Run(func(args mock.Arguments) { storedHash = args.String(3) }).
		Return(&domain.User{ID: 42, Username: "jdoe", Email: "j@x.com", Role: domain.RoleUser, EmailVerified: true}, nil)
	verifier.On("Discard", mock.Anything, domain.PendingUser("pre_abc"), "j@x.com", domain.PurposePreRegistration).Return(nil)

	sess := &fakeSession{slot: verifiedSlot(now)}
	u, err := svc.Complete(context.Background(), sess, completeReq())
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.EqualValues(t, 42, u.ID)
	assert.True(t, u.EmailVerified)
	assert.Nil(t, sess.slot)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("hunter2hunter2")))
	verifier.AssertExpectations(t)
}

func TestComplete_EmailClaimedMeanwhile(t *testing.T) {
	users := new(mockUsers)
	verifier := new(mockVerifier)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewServiceWithClock(users, verifier, fixedClock(now))

	users.On("GetByEmail", mock.Anything, "j@x.com").Return(&domain.User{ID: 9}, nil)

	sess := &fakeSession{slot: verifiedSlot(now)}
	u, err := svc.Complete(context.Background(), sess, completeReq())
	assert.Nil(t, u)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Email already exists", err.Error())
	assert.NotNil(t, sess.slot)
}

func TestComplete_CreateConflictMapsToEmailExists(t *testing.T) {
	users := new(mockUsers)
	verifier := new(mockVerifier)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewServiceWithClock(users, verifier, fixedClock(now))

	users.On("GetByEmail", mock.Anything, "j@x.com").Return(nil, domain.ErrNotFound)
	users.On("Create", mock.Anything, "jdoe", "j@x.com", mock.AnythingOfType("string"), true).
		Return(nil, domain.ErrConflict)

	u, err := svc.Complete(context.Background(), &fakeSession{slot: verifiedSlot(now)}, completeReq())
	assert.Nil(t, u)
	require.Error(t, err)
	assert.Equal(t, "Email already exists", err.Error())
}
