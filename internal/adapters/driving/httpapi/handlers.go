package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

var errNoSession = fmt.Errorf("%w: no data to store", domain.ErrNoContent)

// envelope is the response body shared by all endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Text    string `json:"text,omitempty"`
}

type documentJSON struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	IndexPath  string    `json:"index_path"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type documentResponse struct {
	envelope
	Document documentJSON `json:"document"`
}

type documentsResponse struct {
	envelope
	Documents []documentJSON `json:"documents"`
}

type searchRequest struct {
	Filename string `json:"filename"`
	Query    string `json:"query"`
	K        int    `json:"k"`
}

type searchResponse struct {
	envelope
	Results []domain.SearchHit `json:"results"`
}

func toDocumentJSON(d *domain.Document) documentJSON {
	return documentJSON{
		ID:         d.ID,
		Filename:   d.Filename,
		IndexPath:  d.IndexPath,
		ChunkCount: d.ChunkCount,
		UploadedAt: d.UploadedAt,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleExtractText stages an uploaded text file under the client's key.
func (s *Server) handleExtractText(c *gin.Context) {
	if s.cfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, envelope{Message: "File too large"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Message: "No file part"})
		return
	}

	name := uploadName(fh.Filename)
	if name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Message: "No file selected"})
		return
	}
	if !s.ports.Extractor.Supports(name) {
		msg := fmt.Sprintf("Only %s files allowed", strings.Join(s.ports.Extractor.Extensions(), ", "))
		c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Message: msg})
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, fmt.Errorf("opening upload: %w", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		writeError(c, fmt.Errorf("reading upload: %w", err))
		return
	}
	text, err := s.ports.Extractor.Extract(c.Request.Context(), name, data)
	if err != nil {
		writeError(c, err)
		return
	}

	key := sessionKey(c)
	if key == "" {
		key = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, key, int(s.cfg.SessionTTL/time.Second), "/", "", false, true)
	}
	c.Header(SessionHeader, key)

	if err := s.ports.Staging.Stage(c.Request.Context(), key, text, name); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, envelope{Success: true, Message: "Text extracted successfully", Text: text})
}

// handleGetText returns the client's staged text without clearing it.
func (s *Server) handleGetText(c *gin.Context) {
	key := sessionKey(c)
	if key == "" {
		writeError(c, errNoSession)
		return
	}

	pending, err := s.ports.Staging.Peek(c.Request.Context(), key)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, envelope{Success: true, Message: "Text fetched successfully", Text: pending.RawText})
}

// handleStoreText ingests the client's staged text.
func (s *Server) handleStoreText(c *gin.Context) {
	key := sessionKey(c)
	if key == "" {
		writeError(c, errNoSession)
		return
	}

	doc, err := s.ports.Staging.Store(c.Request.Context(), key)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, documentResponse{
		envelope: envelope{Success: true, Message: "Stored"},
		Document: toDocumentJSON(doc),
	})
}

// handleCancel discards the client's staged text.
func (s *Server) handleCancel(c *gin.Context) {
	if key := sessionKey(c); key != "" {
		if err := s.ports.Staging.Cancel(c.Request.Context(), key); err != nil {
			writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, envelope{Success: true, Message: "Cancelled"})
}

// handleSearch runs a similarity query against one document.
func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	hits, err := s.ports.Search.Search(c.Request.Context(), req.Filename, req.Query, req.K)
	if err != nil {
		writeError(c, err)
		return
	}
	if hits == nil {
		hits = []domain.SearchHit{}
	}

	c.JSON(http.StatusOK, searchResponse{
		envelope: envelope{Success: true, Message: fmt.Sprintf("%d results", len(hits))},
		Results:  hits,
	})
}

func (s *Server) handleListDocuments(c *gin.Context) {
	docs, err := s.ports.Document.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]documentJSON, len(docs))
	for i := range docs {
		out[i] = toDocumentJSON(&docs[i])
	}
	c.JSON(http.StatusOK, documentsResponse{
		envelope:  envelope{Success: true, Message: fmt.Sprintf("%d documents", len(out))},
		Documents: out,
	})
}

func (s *Server) handleGetDocument(c *gin.Context) {
	doc, err := s.ports.Document.Get(c.Request.Context(), c.Param("filename"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, documentResponse{
		envelope: envelope{Success: true, Message: "Found"},
		Document: toDocumentJSON(doc),
	})
}

// uploadName returns the base name of a client-supplied filename, which may
// use either path separator.
func uploadName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
