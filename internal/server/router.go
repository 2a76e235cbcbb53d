package server

import "net/http"

func (s *Server) NewRouter() http.Handler {
	mux := http.NewServeMux()

	// API эндпоинты
	mux.HandleFunc("/validate", s.Validate)
	mux.HandleFunc("/start", s.StartRun)
	mux.HandleFunc("/stop", s.StopRun)
	mux.HandleFunc("/stream", s.Stream)
	mux.HandleFunc("/export", s.ExportCSV)
	mux.HandleFunc("/run", s.Snapshot)
	mux.HandleFunc("/table", s.Table)
	mux.HandleFunc("/plot", s.Plot)
	mux.HandleFunc("/targets", s.Targets)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}
