// Package handlers contains the HTTP handlers for Inkwell. Handlers are
// grouped by concern (auth, admin, public) and receive their dependencies
// through the handler struct.
package handlers

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/render"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

// totpIssuer is the issuer label shown in authenticator apps.
const totpIssuer = "Inkwell"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	admins   *store.AdminStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, admins *store.AdminStore) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		admins:   admins,
	}
}

// RegisterPage renders the registration form.
func (a *Auth) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.SessionFromCtx(r.Context()); sess.Authenticated() {
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "register", &render.PageData{
		Title: "Register",
		Data:  map[string]any{},
	})
}

// RegisterSubmit processes the registration form. New accounts always get
// the admin role; master accounts are created by seeding or by hand.
func (a *Auth) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm")

	renderError := func(msg string) {
		a.renderer.Page(w, r, "register", &render.PageData{
			Title: "Register",
			Data:  map[string]any{"Error": msg, "Username": username},
		})
	}

	if msg := validateRegistration(username, password, confirm); msg != "" {
		renderError(msg)
		return
	}

	existing, err := a.admins.FindByUsername(username)
	if err != nil {
		slog.Error("register lookup failed", "error", err)
		renderError("An unexpected error occurred.")
		return
	}
	if existing != nil {
		renderError("That username is already taken.")
		return
	}

	if _, err := a.admins.Create(username, password, models.RoleAdmin); err != nil {
		slog.Error("register create failed", "error", err)
		renderError("An unexpected error occurred.")
		return
	}

	slog.Info("admin account registered", "username", username)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.SessionFromCtx(r.Context()); sess.Authenticated() {
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", &render.PageData{
		Title: "Sign in",
		Data:  map[string]any{},
	})
}

// LoginSubmit processes the login form. The error message never reveals
// whether the username exists.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	renderError := func(msg string) {
		a.renderer.Page(w, r, "login", &render.PageData{
			Title: "Sign in",
			Data:  map[string]any{"Error": msg},
		})
	}

	user, err := a.admins.FindByUsername(username)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		renderError("An unexpected error occurred.")
		return
	}
	if user == nil || !a.admins.CheckPassword(user, password) {
		renderError("Invalid username or password.")
		return
	}

	// Accounts without 2FA enrollment are fully authenticated right away;
	// enrolled accounts must still present a TOTP code.
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		AdminID:   user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		TwoFADone: !user.Needs2FA(),
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("admin logged in", "username", user.Username, "role", user.Role)

	if user.Needs2FA() {
		http.Redirect(w, r, "/auth/2fa/verify", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

// TwoFASetupPage generates a TOTP secret and displays the QR code for
// enrollment. Already-enrolled accounts see a confirmation instead.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.admins.FindByID(sess.AdminID)
	if err != nil || user == nil {
		slog.Error("2fa setup lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if user.TOTPEnabled {
		a.renderer.Page(w, r, "2fa_setup", &render.PageData{
			Title: "Two-factor setup",
			Data:  map[string]any{"Enabled": true},
		})
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Username,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := a.admins.SetTOTPSecret(sess.AdminID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.render2FASetup(w, r, key.URL(), key.Secret(), "")
}

// TwoFASetupSubmit confirms enrollment by validating a code against the
// pending secret, then enables 2FA for the account.
func (a *Auth) TwoFASetupSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.admins.FindByID(sess.AdminID)
	if err != nil || user == nil {
		slog.Error("2fa confirm lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user.TOTPSecret == nil {
		http.Redirect(w, r, "/auth/2fa/setup", http.StatusSeeOther)
		return
	}

	if !totp.Validate(r.FormValue("code"), *user.TOTPSecret) {
		url := otpauthURL(sess.Username, *user.TOTPSecret)
		a.render2FASetup(w, r, url, *user.TOTPSecret, "Invalid code. Please try again.")
		return
	}

	if err := a.admins.EnableTOTP(sess.AdminID); err != nil {
		slog.Error("enable totp failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("2fa enabled", "username", sess.Username)
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

// TwoFAVerifyPage renders the code entry form shown after login for
// enrolled accounts.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "2fa_verify", &render.PageData{
		Title: "Two-factor verification",
		Data:  map[string]any{},
	})
}

// TwoFAVerifySubmit validates the TOTP code and completes authentication.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.admins.FindByID(sess.AdminID)
	if err != nil || user == nil {
		slog.Error("2fa verify lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user.TOTPSecret == nil {
		// Session says enrolled but the account isn't; start over.
		a.sessions.Destroy(r.Context(), w, r)
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	if !totp.Validate(r.FormValue("code"), *user.TOTPSecret) {
		a.renderer.Page(w, r, "2fa_verify", &render.PageData{
			Title: "Two-factor verification",
			Data:  map[string]any{"Error": "Invalid code. Please try again."},
		})
		return
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// render2FASetup renders the setup page with a QR code for the given
// otpauth URL.
func (a *Auth) render2FASetup(w http.ResponseWriter, r *http.Request, url, secret, errMsg string) {
	qrPNG, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"QRCode": base64.StdEncoding.EncodeToString(qrPNG),
		"Secret": secret,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}

	a.renderer.Page(w, r, "2fa_setup", &render.PageData{
		Title: "Two-factor setup",
		Data:  data,
	})
}

// otpauthURL rebuilds the provisioning URL for an existing secret so the
// QR code can be re-rendered after a failed confirmation.
func otpauthURL(account, secret string) string {
	return fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s", totpIssuer, account, secret, totpIssuer)
}
