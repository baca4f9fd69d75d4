package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/goliatone/go-cogform/pkg/model"
	"github.com/goliatone/go-cogform/pkg/predict"
	"github.com/goliatone/go-cogform/pkg/render"
)

// handlePredict accepts a browser form post and answers with the form page,
// echoing the submitted values and showing either errors or outputs.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			s.renderPage(w, r, http.StatusBadRequest, render.RenderOptions{FormErrors: []string{"invalid submission: " + err.Error()}})
			return
		}
		if err := r.ParseForm(); err != nil {
			s.renderPage(w, r, http.StatusBadRequest, render.RenderOptions{FormErrors: []string{"invalid submission: " + err.Error()}})
			return
		}
	}

	raw := make(map[string]any, len(s.form.Fields))
	echo := make(map[string]any, len(s.form.Fields))
	var fieldErrs map[string][]string

	for _, field := range s.form.Fields {
		if field.Kind == model.FieldKindFile {
			paths, err := s.saveUploads(field, r.MultipartForm)
			if err != nil {
				fieldErrs = render.AddFieldError(fieldErrs, field.Name, err.Error())
				continue
			}
			switch {
			case len(paths) == 0:
			case field.Multiple:
				raw[field.Name] = paths
			default:
				raw[field.Name] = paths[0]
			}
			continue
		}
		values, ok := r.PostForm[field.Name]
		if !ok || len(values) == 0 {
			continue
		}
		// checkboxes post a hidden "false" followed by "true" when ticked
		value := values[len(values)-1]
		raw[field.Name] = value
		echo[field.Name] = value
	}

	values, errs := coerce(s.form, raw)
	for name, messages := range errs {
		for _, msg := range messages {
			fieldErrs = render.AddFieldError(fieldErrs, name, msg)
		}
	}
	if len(fieldErrs) > 0 {
		s.renderPage(w, r, http.StatusUnprocessableEntity, render.RenderOptions{Values: echo, Errors: fieldErrs})
		return
	}

	result, err := s.predictor.Predict(r.Context(), values, predict.WithPublicBaseURL(s.baseURL(r)))
	if err != nil {
		s.logger.Warn("prediction failed", "error", err, "status", predict.StatusCode(err))
		s.renderPage(w, r, http.StatusBadGateway, render.RenderOptions{
			Values:     echo,
			FormErrors: []string{predict.Message(err)},
		})
		return
	}
	defer s.closeResult(result)

	s.renderPage(w, r, http.StatusOK, render.RenderOptions{
		Values:  echo,
		Outputs: render.OutputViews(s.form.Slots, result.Artifacts, nil),
	})
}

type apiRequest struct {
	Input map[string]any `json:"input"`
}

type apiResponse struct {
	Outputs []render.OutputView `json:"outputs,omitempty"`
	Error   string              `json:"error,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// handleAPIPredict is the JSON counterpart of handlePredict. File inputs are
// passed as URLs or paths already visible to the container.
func (s *Server) handleAPIPredict(w http.ResponseWriter, r *http.Request) {
	var req apiRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxUpload))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	values, errs := coerce(s.form, req.Input)
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, apiResponse{Error: "invalid input", Fields: errs})
		return
	}

	result, err := s.predictor.Predict(r.Context(), values, predict.WithPublicBaseURL(s.baseURL(r)))
	if err != nil {
		s.logger.Warn("prediction failed", "error", err, "status", predict.StatusCode(err))
		writeJSON(w, http.StatusBadGateway, apiResponse{Error: predict.Message(err)})
		return
	}
	defer s.closeResult(result)

	writeJSON(w, http.StatusOK, apiResponse{Outputs: render.OutputViews(s.form.Slots, result.Artifacts, nil)})
}

// coerce converts every submitted value, collecting one message per field
// that fails instead of stopping at the first.
func coerce(form model.FormModel, raw map[string]any) ([]model.Value, map[string][]string) {
	values := make([]model.Value, 0, len(form.Fields))
	var errs map[string][]string
	for _, field := range form.Fields {
		input, ok := raw[field.Name]
		if !ok {
			continue
		}
		value, err := model.Coerce(field, input)
		if err != nil {
			errs = render.AddFieldError(errs, field.Name, err.Error())
			continue
		}
		values = append(values, model.Value{Name: field.Name, Value: value})
	}
	return values, errs
}

// saveUploads writes every file posted under the field name into the upload
// directory with a random name and returns the absolute paths.
func (s *Server) saveUploads(field model.Field, form *multipart.Form) ([]string, error) {
	if form == nil {
		return nil, nil
	}
	headers := form.File[field.Name]
	if len(headers) == 0 {
		return nil, nil
	}
	if !field.Multiple && len(headers) > 1 {
		headers = headers[:1]
	}
	if err := s.files.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	paths := make([]string, 0, len(headers))
	for _, header := range headers {
		path, err := s.saveUpload(field, header)
		if err != nil {
			for _, written := range paths {
				_ = s.files.Remove(written)
			}
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *Server) saveUpload(field model.Field, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %q: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload %q: %w", header.Filename, err)
	}
	detected := mimetype.Detect(data)
	if !accepts(field.FileKind, detected) {
		return "", fmt.Errorf("%s is not an accepted %s file (%s)", header.Filename, field.FileKind, detected.String())
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = detected.Extension()
	}
	path := filepath.Join(s.uploadDir, uuid.NewString()+ext)
	if err := afero.WriteFile(s.files, path, data, 0o644); err != nil {
		return "", fmt.Errorf("save upload %q: %w", header.Filename, err)
	}
	s.logger.Debug("saved upload", "field", field.Name, "path", path, "mime", detected.String(), "bytes", len(data))
	return path, nil
}

func accepts(kind model.FileKind, detected *mimetype.MIME) bool {
	var prefix string
	switch kind {
	case model.FileKindImage:
		prefix = "image/"
	case model.FileKindAudio:
		prefix = "audio/"
	case model.FileKindVideo:
		prefix = "video/"
	default:
		return true
	}
	for m := detected; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), prefix) {
			return true
		}
	}
	return false
}

func (s *Server) closeResult(result interface{ Close() error }) {
	if err := result.Close(); err != nil {
		s.logger.Warn("release outputs", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
