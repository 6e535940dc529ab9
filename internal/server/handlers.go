package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/masato/disclosure-verifier/internal/llm"
	"github.com/masato/disclosure-verifier/internal/parsing"
	"github.com/masato/disclosure-verifier/internal/rasterize"
	"github.com/masato/disclosure-verifier/internal/types"
	"github.com/masato/disclosure-verifier/internal/verify"
)

// verifyResponse is the verification API response body.
type verifyResponse struct {
	RequestID string          `json:"request_id"`
	Findings  []types.Finding `json:"findings"`
}

// handleVerify accepts a multipart form with `evidence` files and a
// `target` file, runs the verification, and returns the merged findings.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.logger.Warn("failed to clean up multipart form", "error", err)
		}
	}()

	evidence, err := readFormFiles(r.MultipartForm.File["evidence"])
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read evidence upload: "+err.Error())
		return
	}
	target, err := readFormFiles(r.MultipartForm.File["target"])
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read target upload: "+err.Error())
		return
	}

	result, err := s.verifier.Run(r.Context(), verify.Request{
		Evidence: evidence,
		Target:   target,
	})
	if err != nil {
		status, message := mapVerifyError(err)
		s.logger.Error("verification failed", "status", status, "error", err)
		s.errorResponse(w, status, message)
		return
	}

	resp := verifyResponse{
		RequestID: result.RequestID,
		Findings:  result.Findings,
	}
	if resp.Findings == nil {
		resp.Findings = []types.Finding{}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func readFormFiles(headers []*multipart.FileHeader) ([][]byte, error) {
	docs := make([][]byte, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		closeErr := f.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}
		docs = append(docs, data)
	}
	return docs, nil
}

// mapVerifyError translates a verification failure into an HTTP status.
func mapVerifyError(err error) (int, string) {
	var validationErr *verify.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Message
	}

	var readErr *rasterize.DocumentReadError
	if errors.As(err, &readErr) {
		return http.StatusBadRequest, "document could not be read: " + readErr.Message
	}

	var safetyErr *llm.SafetyBlockError
	if errors.As(err, &safetyErr) {
		return http.StatusUnprocessableEntity, safetyErr.Message
	}

	var parseErr *parsing.ResponseParseError
	if errors.As(err, &parseErr) {
		return http.StatusBadGateway, parseErr.Message
	}

	return http.StatusInternalServerError, "verification failed"
}
