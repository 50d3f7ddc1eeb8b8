package handlers

import (
	"errors"
	"net/http"
	"time"

	"url-shrinker/internal/managers"
	"url-shrinker/internal/metrics"
	"url-shrinker/internal/schemas"
	"url-shrinker/internal/stores"
	"url-shrinker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ResetCodeTTL is how long a password reset code stays valid for verification.
const ResetCodeTTL = 10 * time.Minute

type UserHdl interface {
	RegisterUser(ctx *gin.Context)
	ActivateUser(ctx *gin.Context)
	LoginUser(ctx *gin.Context)
	ForgotPassword(ctx *gin.Context)
	VerifyResetToken(ctx *gin.Context)
	ResetPassword(ctx *gin.Context)
	HandleGetUserRequest(ctx *gin.Context)
	LogoutUser(ctx *gin.Context)
	RefreshSession(ctx *gin.Context)
}

// CookieSettings describes the session cookie.
type CookieSettings struct {
	Name   string
	Secure bool
}

type UserHandler struct {
	DatabaseManager managers.DatabaseMgr
	JWTManager      managers.JWTMgr
	MailManager     managers.MailMgr
	SessionManager  managers.SessionMgr
	Validator       *utils.Validator
	Cookie          CookieSettings
	Now             func() time.Time
}

func NewUserHandler(databaseManager managers.DatabaseMgr, jwtManager managers.JWTMgr, mailManager managers.MailMgr,
	sessionManager managers.SessionMgr, cookie CookieSettings) UserHdl {
	return &UserHandler{
		DatabaseManager: databaseManager,
		JWTManager:      jwtManager,
		MailManager:     mailManager,
		SessionManager:  sessionManager,
		Validator:       utils.GetValidator(),
		Cookie:          cookie,
		Now:             time.Now,
	}
}

func (handler *UserHandler) users() *stores.UserStore {
	return stores.NewUserStore(handler.DatabaseManager.GetPool())
}

// RegisterUser creates an inactive account and mails the activation link.
// The insert is rolled back when the mail cannot be sent, so the user can simply register again.
func (handler *UserHandler) RegisterUser(ctx *gin.Context) {
	registrationRequest := ctx.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.RegistrationRequest)

	if !handler.Validator.VerifyEmail(registrationRequest.Email) {
		utils.WriteAndLogError(ctx, schemas.EmailInvalid, http.StatusBadRequest, errors.New("email not deliverable"))
		return
	}

	users := handler.users()
	if _, err := users.FindByEmail(ctx, registrationRequest.Email); err == nil {
		utils.WriteAndLogError(ctx, schemas.EmailExists, http.StatusOK, errors.New("email taken"))
		return
	} else if !errors.Is(err, stores.ErrNotFound) {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	hashedPassword, err := utils.HashPassword(registrationRequest.Password)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	defer utils.RollbackTransaction(ctx, tx, &err)

	user := &schemas.User{
		ID:        uuid.New(),
		FirstName: registrationRequest.FirstName,
		LastName:  registrationRequest.LastName,
		Email:     registrationRequest.Email,
		Password:  hashedPassword,
		CreatedAt: handler.Now(),
	}
	if err = users.WithTx(tx).Insert(ctx, user); err != nil {
		if errors.Is(err, stores.ErrDuplicate) {
			utils.WriteAndLogError(ctx, schemas.EmailExists, http.StatusOK, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = handler.sendActivationMail(ctx, user); err != nil {
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	metrics.Registrations.Inc()
	utils.WriteAndLogSuccess(ctx, "User registered successfully. Kindly check your email for activation link.", http.StatusOK)
}

// sendActivationMail issues an activation token for user and mails it.
// On failure the error response has already been written.
func (handler *UserHandler) sendActivationMail(ctx *gin.Context, user *schemas.User) error {
	token, err := handler.JWTManager.GenerateActivationJWT(user.ID.String())
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return err
	}

	if err := handler.MailManager.SendActivationMail(ctx, user, token); err != nil {
		utils.WriteAndLogError(ctx, schemas.ActivationMailFailed, http.StatusServiceUnavailable, err)
		return err
	}
	return nil
}

// ActivateUser activates the account named by the activation token in the path.
func (handler *UserHandler) ActivateUser(ctx *gin.Context) {
	token := ctx.Param(utils.ActivationTokenKey)

	subject, err := handler.JWTManager.ValidateActivationJWT(token)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.ActivationExpired, http.StatusBadRequest, err)
		return
	}

	userId, err := uuid.Parse(subject)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.ActivationFailed, http.StatusBadRequest, err)
		return
	}

	if err := handler.users().Activate(ctx, userId); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.ActivationFailed, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogSuccess(ctx, "Your account has been activated successfully !!!", http.StatusOK)
}

// LoginUser checks the credentials and opens a session.
// Unknown email and wrong password get the same answer. Inactive accounts get a fresh activation mail instead.
func (handler *UserHandler) LoginUser(ctx *gin.Context) {
	loginRequest := ctx.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	user, err := handler.users().FindByEmail(ctx, loginRequest.Email)
	if err != nil && !errors.Is(err, stores.ErrNotFound) {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	if err != nil || !utils.CheckPassword(loginRequest.Password, user.Password) {
		metrics.Logins.WithLabelValues(metrics.ResultFailure).Inc()
		utils.WriteAndLogError(ctx, schemas.InvalidCredentials, http.StatusOK, errors.New("invalid credentials"))
		return
	}

	if !user.Activated {
		if err := handler.sendActivationMail(ctx, user); err != nil {
			return
		}
		utils.WriteAndLogSuccess(ctx, "Account is not activated. Kindly check your email for activation link.", http.StatusOK)
		return
	}

	if err := handler.openSession(ctx, user); err != nil {
		return
	}

	metrics.Logins.WithLabelValues(metrics.ResultSuccess).Inc()
	utils.WriteAndLogSuccess(ctx, "Successful login", http.StatusOK)
}

// openSession creates a server side session for user and sets the session cookie.
// On failure the error response has already been written.
func (handler *UserHandler) openSession(ctx *gin.Context, user *schemas.User) error {
	sessionId, err := handler.SessionManager.CreateSession(ctx, user.ID.String(), managers.SessionTTL)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return err
	}

	token, err := handler.JWTManager.GenerateSessionJWT(user, sessionId)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return err
	}

	handler.setSessionCookie(ctx, token, int(managers.SessionTTL.Seconds()))
	return nil
}

func (handler *UserHandler) setSessionCookie(ctx *gin.Context, value string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(handler.Cookie.Name, value, maxAge, "/", "", handler.Cookie.Secure, true)
}

// ForgotPassword stores a fresh reset code on an activated account and mails the reset link.
func (handler *UserHandler) ForgotPassword(ctx *gin.Context) {
	forgotRequest := ctx.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.ForgotPasswordRequest)

	users := handler.users()
	user, err := users.FindByEmail(ctx, forgotRequest.Email)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.EmailNotFound, http.StatusOK, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if !user.Activated {
		utils.WriteAndLogError(ctx, schemas.UserNotActivated, http.StatusOK, errors.New("user not activated"))
		return
	}

	code, err := utils.GenerateResetCode()
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	expiresAt := handler.Now().Add(ResetCodeTTL).UnixMilli()
	if err := users.SetResetToken(ctx, user.Email, code, expiresAt); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.ResetTokenStoreFailed, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := handler.MailManager.SendPasswordResetMail(ctx, user, code); err != nil {
		utils.WriteAndLogError(ctx, schemas.ResetMailFailed, http.StatusServiceUnavailable, err)
		return
	}

	utils.WriteAndLogSuccess(ctx, "Kindly check your email for password-reset link.", http.StatusOK)
}

// VerifyResetToken reports whether the reset code in the path is known and not yet expired.
// It does not consume the code.
func (handler *UserHandler) VerifyResetToken(ctx *gin.Context) {
	token := ctx.Param(utils.ResetTokenKey)

	if _, err := handler.users().FindByResetToken(ctx, token, handler.Now().UnixMilli()); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.ResetTokenExpired, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogSuccess(ctx, "Token Verified", http.StatusOK)
}

// ResetPassword sets a new password for the holder of the reset code and consumes the code.
// The expiry is only enforced by VerifyResetToken, a known code is accepted here even after it.
func (handler *UserHandler) ResetPassword(ctx *gin.Context) {
	token := ctx.Param(utils.ResetTokenKey)
	resetRequest := ctx.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.ResetPasswordRequest)

	users := handler.users()
	if _, err := users.FindByResetToken(ctx, token, 0); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.ResetTokenMismatch, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	hashedPassword, err := utils.HashPassword(resetRequest.Password)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	if err := users.ResetPassword(ctx, token, hashedPassword); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.PasswordUpdateFailed, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogSuccess(ctx, "Password has been reset. You will be redirected to Login page.", http.StatusOK)
}

// HandleGetUserRequest returns the profile of the logged in user.
func (handler *UserHandler) HandleGetUserRequest(ctx *gin.Context) {
	user, ok := currentUser(ctx, handler.users())
	if !ok {
		return
	}

	profile := &schemas.ProfileDTO{
		IsSuccess: true,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
	}
	utils.WriteAndLogResponse(ctx, profile, http.StatusOK)
}

// LogoutUser closes the session of the request and clears the cookie.
func (handler *UserHandler) LogoutUser(ctx *gin.Context) {
	claims := sessionClaims(ctx)

	if err := handler.SessionManager.DeleteSession(ctx, claims.ID); err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	handler.setSessionCookie(ctx, "", -1)
	utils.WriteAndLogSuccess(ctx, "Successfully Logged out", http.StatusOK)
}

// RefreshSession replaces the session of the request with a new one carrying current profile claims.
func (handler *UserHandler) RefreshSession(ctx *gin.Context) {
	claims := sessionClaims(ctx)

	user, ok := currentUser(ctx, handler.users())
	if !ok {
		return
	}

	if err := handler.openSession(ctx, user); err != nil {
		return
	}

	if err := handler.SessionManager.DeleteSession(ctx, claims.ID); err != nil {
		utils.LogMessageWithFieldsAndError(ctx, "warn", "Failed to delete replaced session", err)
	}

	utils.WriteAndLogSuccess(ctx, "Session refreshed", http.StatusOK)
}

func sessionClaims(ctx *gin.Context) *managers.SessionClaims {
	return ctx.MustGet(utils.ClaimsKey.String()).(*managers.SessionClaims)
}

// currentUser loads the user named by the session claims. Both id and email must still match.
// When ok is false the error response has already been written.
func currentUser(ctx *gin.Context, users *stores.UserStore) (*schemas.User, bool) {
	claims := sessionClaims(ctx)

	userId, err := uuid.Parse(claims.Subject)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized, err)
		return nil, false
	}

	user, err := users.FindByIdAndEmail(ctx, userId, claims.Email)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized, err)
			return nil, false
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return nil, false
	}
	return user, true
}
