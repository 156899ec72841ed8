package middleware

import (
	"context"
	"net/http"
)

const (
	// CompanyIDContextKey is the context key for the resolved company ID.
	CompanyIDContextKey ContextKey = "company_id"
	// UserIDContextKey is the context key for the resolved user ID.
	UserIDContextKey ContextKey = "user_id"

	// CompanyIDHeader carries the company scope when no JWT is presented.
	CompanyIDHeader = "X-Company-ID"
	// UserIDHeader carries the acting user when no JWT is presented.
	UserIDHeader = "X-User-ID"
)

// CompanyContext resolves the company and user every request acts under.
// JWT claims win, then the scoping headers, then the configured default
// company for single-shop deployments.
func CompanyContext(defaultCompanyID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			companyID := ""
			userID := ""

			if user, ok := GetUserFromContext(r.Context()); ok {
				companyID = user.CompanyID
				userID = user.ID
			}

			if companyID == "" {
				companyID = r.Header.Get(CompanyIDHeader)
			}
			if companyID == "" {
				companyID = defaultCompanyID
			}
			if userID == "" {
				userID = r.Header.Get(UserIDHeader)
			}

			ctx := context.WithValue(r.Context(), CompanyIDContextKey, companyID)
			ctx = context.WithValue(ctx, UserIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCompanyID extracts the resolved company ID from context.
func GetCompanyID(ctx context.Context) string {
	companyID, _ := ctx.Value(CompanyIDContextKey).(string)
	return companyID
}

// GetUserID extracts the resolved user ID from context.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDContextKey).(string)
	return userID
}
