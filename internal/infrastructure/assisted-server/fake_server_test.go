package assistedserver_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

type fakeServer struct {
	*httptest.Server

	lock      sync.Mutex
	payments  map[string]map[string]interface{}
	dummyTxs  map[string]map[string]interface{}
	paymentOf map[string]string
	headers   []http.Header
	nextID    int

	// failures is the number of upcoming requests answered with 503.
	failures int
	psbt     string
}

func newFakeServer(t *testing.T, psbt string) *fakeServer {
	s := &fakeServer{
		payments:  map[string]map[string]interface{}{},
		dummyTxs:  map[string]map[string]interface{}{},
		paymentOf: map[string]string{},
		psbt:      psbt,
	}

	r := chi.NewRouter()
	r.Use(s.record)

	r.Get("/subscriptions/current", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]interface{}{
			"subscription": map[string]interface{}{
				"subscription_id": "sub-1",
				"plan":            map[string]string{"slug": "honey_badger"},
				"status":          "ACTIVE",
			},
		})
	})
	r.Post("/user-keys", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, 400, err.Error())
			return
		}
		writeData(w, map[string]interface{}{
			"key": map[string]string{"key_id": "key-" + s.newID()},
		})
	})
	r.Post("/user-keys/{keyId}/verify", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "keyId") == "unknown" {
			writeError(w, http.StatusNotFound, 404, "key not found")
			return
		}
		writeData(w, map[string]interface{}{})
	})
	r.Get("/user-wallets/assisted-wallets", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]interface{}{
			"wallets": []map[string]interface{}{
				{"local_id": "w1", "plan_slug": "iron_hand"},
				{"local_id": "w2", "plan_slug": "byzantine_pro", "is_setup_inheritance": true},
			},
		})
	})
	r.Patch("/user-wallets/wallets/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]bool
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, 400, err.Error())
			return
		}
		writeData(w, map[string]interface{}{
			"wallet": map[string]interface{}{
				"local_id":             chi.URLParam(r, "id"),
				"plan_slug":            "iron_hand",
				"is_register_airgap":   req["is_register_airgap"],
				"is_register_coldcard": req["is_register_coldcard"],
			},
		})
	})
	r.Get("/wallets/{id}/replacement-status", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]interface{}{
			"pending_replace_xfps": []string{"aaaa0001"},
			"signers": []map[string]interface{}{
				{
					"xfp": "aaaa0001",
					"replace_by": map[string]interface{}{
						"name": "new key", "xfp": "bbbb0001", "derivation_path": "m/48h/0h/0h/2h",
						"type": "HARDWARE", "tags": []string{"COLDCARD"}, "xpub": "xpub1",
					},
					"replacements": []map[string]interface{}{
						{"name": "card", "xfp": "cccc0001", "type": "NFC",
							"tapsigner": map[string]interface{}{"card_id": "card-1", "birth_height": 10}},
					},
				},
			},
		})
	})
	r.Post("/wallets/{id}/replacement/{xfp}/confirm", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]interface{}{})
	})

	r.Route("/groups/{groupId}/wallets/{walletId}", s.walletScope)
	r.Route("/wallets/{walletId}", s.walletScope)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

func (s *fakeServer) walletScope(r chi.Router) {
	r.Post("/recurring-payments", func(w http.ResponseWriter, r *http.Request) {
		var payment map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
			writeError(w, http.StatusBadRequest, 400, err.Error())
			return
		}
		s.lock.Lock()
		id := s.newIDLocked()
		payment["id"] = id
		s.payments[id] = payment
		s.lock.Unlock()

		writeData(w, map[string]interface{}{"recurring_payment": payment})
	})
	r.Get("/recurring-payments", func(w http.ResponseWriter, r *http.Request) {
		s.lock.Lock()
		list := make([]map[string]interface{}, 0, len(s.payments))
		for _, p := range s.payments {
			list = append(list, p)
		}
		s.lock.Unlock()

		writeData(w, map[string]interface{}{"recurring_payments": list})
	})
	r.Get("/recurring-payments/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.lock.Lock()
		p, ok := s.payments[chi.URLParam(r, "id")]
		s.lock.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, 404, "recurring payment not found")
			return
		}
		writeData(w, map[string]interface{}{"recurring_payment": p})
	})
	r.Delete("/recurring-payments/{id}", func(w http.ResponseWriter, r *http.Request) {
		paymentID := chi.URLParam(r, "id")

		s.lock.Lock()
		defer s.lock.Unlock()
		if _, ok := s.payments[paymentID]; !ok {
			writeError(w, http.StatusNotFound, 404, "recurring payment not found")
			return
		}
		id := "dummy-" + s.newIDLocked()
		tx := map[string]interface{}{
			"id":                  id,
			"wallet_local_id":     chi.URLParam(r, "walletId"),
			"group_id":            chi.URLParam(r, "groupId"),
			"type":                "DELETE_RECURRING_PAYMENT",
			"status":              "PENDING_SIGNATURES",
			"required_signatures": 2,
			"pending_signatures":  2,
			"psbt":                s.psbt,
		}
		s.dummyTxs[id] = tx
		s.paymentOf[id] = paymentID

		writeData(w, map[string]interface{}{"dummy_transaction": tx})
	})
	r.Get("/dummy-transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.lock.Lock()
		tx, ok := s.dummyTxs[chi.URLParam(r, "id")]
		s.lock.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, 404, "dummy transaction not found")
			return
		}
		writeData(w, map[string]interface{}{"dummy_transaction": tx})
	})
}

// confirmDummyTx simulates the quorum signing the dummy transaction, which
// applies the deletion.
func (s *fakeServer) confirmDummyTx(id string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.dummyTxs[id]["status"] = "CONFIRMED"
	s.dummyTxs[id]["pending_signatures"] = 0
	delete(s.payments, s.paymentOf[id])
}

func (s *fakeServer) failNext(n int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failures = n
}

func (s *fakeServer) lastHeader() http.Header {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.headers[len(s.headers)-1]
}

func (s *fakeServer) numRequests() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.headers)
}

func (s *fakeServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lock.Lock()
		s.headers = append(s.headers, r.Header.Clone())
		fail := s.failures > 0
		if fail {
			s.failures--
		}
		s.lock.Unlock()

		if fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *fakeServer) newID() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.newIDLocked()
}

func (s *fakeServer) newIDLocked() string {
	s.nextID++
	return fmt.Sprintf("%d", s.nextID)
}

func writeData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	//nolint
	json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func writeError(w http.ResponseWriter, status, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{"code": code, "message": msg},
	})
}
