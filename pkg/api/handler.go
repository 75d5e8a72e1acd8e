package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/podiumstats/rostermatch/pkg/identity"
	"github.com/podiumstats/rostermatch/pkg/kit"
)

// NewRouter returns an http.Handler with all resolver API routes. Every
// endpoint is chained through the kit logging middleware.
func NewRouter(dir *identity.Directory, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.Logging(logger, name))(ep)
	}
	h := &handler{
		resolveName:  wrap("resolve_name", resolveNameEndpoint(dir)),
		resolveBatch: wrap("resolve_batch", resolveBatchEndpoint(dir)),
		listClusters: wrap("list_clusters", listClustersEndpoint(dir)),
		dir:          dir,
	}

	mux.HandleFunc("GET /v1/resolve/batch", methodNotAllowed) // prevent GET on batch
	mux.HandleFunc("POST /v1/resolve/batch", h.handleResolveBatch)
	mux.HandleFunc("GET /v1/resolve/{name}", h.handleResolveName)
	mux.HandleFunc("GET /v1/clusters", h.handleListClusters)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(mux)
}

type handler struct {
	resolveName  kit.Endpoint
	resolveBatch kit.Endpoint
	listClusters kit.Endpoint
	dir          *identity.Directory
}

// --- resolve single name ---

func (h *handler) handleResolveName(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing name")
		return
	}

	resp, err := h.resolveName(r.Context(), &resolveReq{Name: name})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- resolve batch ---

type httpBatchRequest struct {
	Names []string `json:"names"`
}

func (h *handler) handleResolveBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024) // 64 KiB max
	var req httpBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.resolveBatch(r.Context(), &resolveBatchReq{Names: req.Names})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- list clusters ---

func (h *handler) handleListClusters(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listClusters(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status   string `json:"status"`
	Clusters int    `json:"clusters"`
	Records  int    `json:"records"`
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Clusters: h.dir.ClusterCount(),
		Records:  h.dir.RecordCount(),
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// cors is a simple CORS middleware for the browser-side tables and charts.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
