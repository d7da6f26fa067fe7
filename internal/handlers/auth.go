package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"backbar/internal/catalog"
	applog "backbar/internal/log"
	"backbar/models"
)

const (
	sessionAuthenticatedKey = "auth:authenticated"
	sessionAccountIDKey     = "auth:account:id"
	sessionAccountEmailKey  = "auth:account:email"
	sessionAccountNameKey   = "auth:account:name"
	sessionAccountRoleKey   = "auth:account:role"
)

var (
	sessionManager *scs.SessionManager
	database       *gorm.DB
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, db *gorm.DB) {
	sessionManager = sm
	database = db
	service = nil
	if db != nil {
		service = catalog.New(db)
	}
}

var errInvalidCredentials = errors.New("invalid email or password")

func findAccountByEmail(r *http.Request, email string) (*models.Account, error) {
	if database == nil {
		return nil, gorm.ErrInvalidDB
	}

	account := &models.Account{}
	err := database.WithContext(r.Context()).Where("lower(email) = ?", strings.ToLower(email)).First(account).Error
	if err != nil {
		return nil, err
	}
	return account, nil
}

// authenticate verifies the credentials and populates the session.
func authenticate(r *http.Request, email, password string) (*models.Account, error) {
	if sessionManager == nil {
		return nil, errors.New("session manager not configured")
	}

	account, err := findAccountByEmail(r, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	if err := establishSession(r, account); err != nil {
		return nil, err
	}
	return account, nil
}

func establishSession(r *http.Request, account *models.Account) error {
	if sessionManager == nil {
		return errors.New("session manager not configured")
	}
	if err := sessionManager.RenewToken(r.Context()); err != nil {
		return err
	}
	sessionManager.Put(r.Context(), sessionAuthenticatedKey, true)
	sessionManager.Put(r.Context(), sessionAccountIDKey, int(account.ID))
	sessionManager.Put(r.Context(), sessionAccountEmailKey, account.Email)
	sessionManager.Put(r.Context(), sessionAccountNameKey, account.Name)
	sessionManager.Put(r.Context(), sessionAccountRoleKey, models.NormalizeRole(account.Role))
	return nil
}

// RequireAuthentication rejects requests without an active session. API
// calls get a JSON 401, pages are redirected to the login endpoint.
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ActiveSession(r) {
			if strings.HasPrefix(r.URL.Path, "/app/api/") {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCostEditor lets read requests through and restricts writes to
// accounts allowed to change pricing data.
func RequireCostEditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
		default:
			if !currentAccount(r).CanEditCosts() {
				writeJSONError(w, http.StatusForbidden, "your role cannot change catalog data")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Logout destroys the current session.
func Logout(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if sessionManager != nil {
		if err := sessionManager.Destroy(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to destroy session", "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActiveSession returns true when the current request has an authenticated session.
func ActiveSession(r *http.Request) bool {
	if sessionManager == nil {
		return false
	}
	return sessionManager.GetBool(r.Context(), sessionAuthenticatedKey) && sessionManager.GetInt(r.Context(), sessionAccountIDKey) > 0
}

func currentAccountID(r *http.Request) (uint, bool) {
	if sessionManager == nil {
		return 0, false
	}
	id := sessionManager.GetInt(r.Context(), sessionAccountIDKey)
	if id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// currentAccount rebuilds the signed-in account from the session.
func currentAccount(r *http.Request) models.Account {
	var account models.Account
	if sessionManager == nil {
		return models.Account{Role: models.RoleBartender}
	}
	if id, ok := currentAccountID(r); ok {
		account.ID = id
	}
	account.Email = sessionManager.GetString(r.Context(), sessionAccountEmailKey)
	account.Name = sessionManager.GetString(r.Context(), sessionAccountNameKey)
	account.Role = sessionManager.GetString(r.Context(), sessionAccountRoleKey)
	if account.Role == "" {
		account.Role = models.RoleBartender
	}
	return account
}
