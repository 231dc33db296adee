package auth

import (
	"net/http"

	"github.com/healthyduck/fitnessapi/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// RequireUser checks that the request identity matches the userId path
// segment. The literal id has to match, "me" is not substituted. On
// mismatch the 401 response is already written and callers just return.
func RequireUser(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok || identity.ID != mux.Vars(r)["userId"] {
		log.Tracef("[identity mismatch] unauthorized => %s", r.URL.Path)
		pkg.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return Identity{}, false
	}
	return identity, true
}
