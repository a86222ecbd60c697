package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ddvk/rmraster/config"
	"github.com/ddvk/rmraster/log"
	"github.com/ddvk/rmraster/notebook"
	"github.com/ddvk/rmraster/shell"
	"github.com/ddvk/rmraster/visualize"
)

type ApiServer struct {
	root string
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewApiServer(cfg config.Config) *ApiServer {
	return &ApiServer{root: notebook.Root(cfg.DataDir)}
}

func (s *ApiServer) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
}

func (s *ApiServer) writeSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SuccessResponse{Data: data})
}

// GET /api/notebooks
func (s *ApiServer) handleNotebooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notebooks, err := notebook.List(s.root)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeSuccess(w, shell.NotebooksJSON(notebooks))
}

// GET /api/render?uuid=<uuid>&page=<index>&format=<png|jpeg|bmp|tiff>
func (s *ApiServer) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	id := query.Get("uuid")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("uuid parameter is required"))
		return
	}
	index := 0
	if p := query.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid page: %s", p))
			return
		}
		index = n
	}
	format, err := visualize.ParseFormat(query.Get("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	nb, err := notebook.Find(s.root, id, "")
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	var page *notebook.Page
	for i := range nb.Pages {
		if nb.Pages[i].Index == index {
			page = &nb.Pages[i]
			break
		}
	}
	if page == nil || page.RmPath == "" {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("page %d has no strokes", index))
		return
	}

	img, err := visualize.RenderFile(page.RmPath, visualize.Options{Sidecar: nb.ContentPath})
	if err != nil {
		log.Trace.Printf("Failed to render page %d of %s: %v", index, id, err)
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	var buf bytes.Buffer
	if err := visualize.Encode(&buf, img, format); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

func contentType(f visualize.Format) string {
	switch f {
	case visualize.JPEG:
		return "image/jpeg"
	case visualize.BMP:
		return "image/bmp"
	case visualize.TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

func (s *ApiServer) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/notebooks", s.handleNotebooks)
	mux.HandleFunc("/api/render", s.handleRender)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Root endpoint with API documentation
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
	<title>rmraster</title>
</head>
<body>
	<h1>rmraster</h1>
	<h2>Endpoints:</h2>
	<ul>
		<li>GET /api/notebooks - List notebooks</li>
		<li>GET /api/render?uuid=&amp;page=&amp;format= - Render a page</li>
		<li>GET /health - Health check</li>
	</ul>
</body>
</html>
		`)
	})
	return mux
}

func runServerMode(cfg config.Config, port string) {
	server := NewApiServer(cfg)

	log.Info.Printf("Starting HTTP server on port %s", port)
	if err := http.ListenAndServe(":"+port, server.routes()); err != nil {
		log.Error.Fatalf("Server failed: %v", err)
	}
}
