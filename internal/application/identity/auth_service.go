package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/controlroom/backend/internal/domain/identity"
	"github.com/controlroom/backend/internal/domain/shared"
	"github.com/controlroom/backend/internal/infrastructure/auth"
)

// ReferralConverter records a signup attributed to a referral code.
// Attribution is best effort and never blocks signup.
type ReferralConverter interface {
	TrackConversion(ctx context.Context, code string, userID uuid.UUID)
}

// SignupInput contains input for user registration
type SignupInput struct {
	Email       string
	Name        string
	Password    string
	InviteToken string // optional: joins the inviting workspace
	RefCode     string // optional: referral attribution from cookie
}

// AuthResult is returned on successful signup or login
type AuthResult struct {
	User   *identity.User
	Tokens *auth.TokenPair
}

// AuthService handles signup, login and token lifecycle
type AuthService struct {
	userRepo       identity.UserRepository
	membershipRepo identity.MembershipRepository
	invitationRepo identity.InvitationRepository
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	referrals      ReferralConverter
	logger         *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.UserRepository,
	membershipRepo identity.MembershipRepository,
	invitationRepo identity.InvitationRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	referrals ReferralConverter,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		invitationRepo: invitationRepo,
		jwtService:     jwtService,
		blacklist:      blacklist,
		referrals:      referrals,
		logger:         logger,
	}
}

// Signup registers a new user on the trial plan. An invite token joins
// the new user to the inviting workspace; a referral code attributes
// the signup to an affiliate.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	if existing, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Name, input.Password)
	if err != nil {
		return nil, err
	}

	// An invitation must be valid before the account is created, so a
	// bad token does not leave an orphaned signup.
	var invitation *identity.Invitation
	if input.InviteToken != "" {
		invitation, err = s.invitationRepo.FindByToken(ctx, input.InviteToken)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INVITE", "Invitation not found")
		}
		if invitation.IsExpired() || invitation.IsAccepted() {
			return nil, shared.NewDomainError("INVALID_INVITE", "Invitation has expired or was already used")
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if err == shared.ErrAlreadyExists {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
		}
		return nil, err
	}

	if invitation != nil {
		if err := s.acceptInvitation(ctx, invitation, user.ID); err != nil {
			// Signup already succeeded; joining the workspace can be retried
			s.logger.Error("Failed to accept invitation at signup",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
	}

	if input.RefCode != "" && s.referrals != nil {
		s.referrals.TrackConversion(ctx, input.RefCode, user.ID)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Login authenticates a user and issues a token pair
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}
	if !user.VerifyPassword(password) {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	if user.Status != identity.UserStatusActive {
		return nil, shared.NewDomainError("ACCOUNT_SUSPENDED", "This account has been suspended")
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Warn("Failed to record login time",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.GetRemainingTTL()
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		return shared.NewDomainError("LOGOUT_FAILED", "Could not revoke token")
	}
	return nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, shared.ErrUnauthorized
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// CurrentUser loads the authenticated user's account
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// AcceptInvite joins an existing user to the inviting workspace
func (s *AuthService) AcceptInvite(ctx context.Context, token string, userID uuid.UUID) (*identity.Membership, error) {
	invitation, err := s.invitationRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INVITE", "Invitation not found")
	}
	if invitation.IsExpired() || invitation.IsAccepted() {
		return nil, shared.NewDomainError("INVALID_INVITE", "Invitation has expired or was already used")
	}
	if err := s.acceptInvitation(ctx, invitation, userID); err != nil {
		return nil, err
	}
	return s.membershipRepo.Find(ctx, invitation.WorkspaceID, userID)
}

func (s *AuthService) acceptInvitation(ctx context.Context, invitation *identity.Invitation, userID uuid.UUID) error {
	membership, err := identity.NewMembership(invitation.WorkspaceID, userID, invitation.Role)
	if err != nil {
		return err
	}
	if err := s.membershipRepo.Save(ctx, membership); err != nil && err != shared.ErrAlreadyExists {
		return err
	}
	if err := invitation.Accept(); err != nil {
		return err
	}
	return s.invitationRepo.Update(ctx, invitation)
}

func (s *AuthService) issueTokens(user *identity.User) (*auth.TokenPair, error) {
	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:     user.ID,
		Email:      user.Email,
		GlobalRole: string(user.GlobalRole),
		Plan:       string(user.Plan),
	})
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_GENERATION_FAILED", "Could not issue tokens")
	}
	return tokens, nil
}
