package middleware

import (
	"net/http"
	"strings"

	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/identity"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"
)

// Identity reads the requester set by the auth gateway and rejects requests
// that carry no usable identity.
func Identity(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(identity.HeaderUserID))
			role := model.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(identity.HeaderUserRole))))

			if userID == "" || !role.Valid() {
				log.Warn("Rejected request without identity",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"role", string(role),
				)
				writeJSONError(w, http.StatusUnauthorized, apperrors.CodeUnauthorized, "missing or invalid requester identity")
				return
			}

			ctx := identity.WithRequester(r.Context(), identity.Requester{ID: userID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
