package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Demo backend for local runs: serves the ERP, CRM or ITSM dataset.
func main() {
	name := flag.String("service", "erp", "service to emulate: erp, crm, itsm")
	addr := flag.String("addr", "", "listen address (default per service: erp :8091, crm :8092, itsm :8093)")
	flag.Parse()

	svc, ok := services[*name]
	if !ok {
		logrus.Fatalf("unknown service %q", *name)
	}

	if *addr == "" {
		*addr = defaultAddrs[*name]
	}

	log := logrus.WithField("service", svc.Name)
	log.WithField("addr", *addr).Info("demo upstream listening")

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newHandler(svc, time.Now),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("upstream error: %v", err)
	}
}

var defaultAddrs = map[string]string{
	"erp":  ":8091",
	"crm":  ":8092",
	"itsm": ":8093",
}

func newHandler(svc service, now func() time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "Method Not Allowed"})
			return
		}

		switch r.URL.Path {
		case "/":
			endpoints := make([]string, 0, len(svc.Endpoints)+1)
			for p := range svc.Endpoints {
				endpoints = append(endpoints, p)
			}
			sort.Strings(endpoints)
			endpoints = append(endpoints, "/health")

			writeJSON(w, http.StatusOK, map[string]interface{}{
				"service":   svc.Title,
				"version":   "1.0.0",
				"endpoints": endpoints,
			})
		case "/health":
			writeJSON(w, http.StatusOK, map[string]string{
				"status":    "healthy",
				"service":   svc.Name,
				"timestamp": now().UTC().Format(time.RFC3339Nano),
			})
		default:
			data, ok := svc.Endpoints[r.URL.Path]
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
				return
			}
			writeJSON(w, http.StatusOK, data)
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
