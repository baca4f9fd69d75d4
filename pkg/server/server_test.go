package server

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-cogform/pkg/model"
	"github.com/goliatone/go-cogform/pkg/outputs"
	"github.com/goliatone/go-cogform/pkg/predict"
	"github.com/goliatone/go-cogform/pkg/renderers/web"
)

type stubPredictor struct {
	mu     sync.Mutex
	calls  [][]model.Value
	result *outputs.Result
	err    error
}

func (s *stubPredictor) Predict(_ context.Context, values []model.Value, _ ...predict.SubmitOption) (*outputs.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, values)
	return s.result, s.err
}

func (s *stubPredictor) lastCall() []model.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return nil
	}
	return s.calls[len(s.calls)-1]
}

func ptr(v float64) *float64 { return &v }

func testForm() model.FormModel {
	return model.FormModel{
		Title: "Demo for sdxl cog image by stability",
		Fields: []model.Field{
			{Name: "prompt", Kind: model.FieldKindText, Label: "Prompt"},
			{Name: "image", Kind: model.FieldKindFile, FileKind: model.FileKindImage, Label: "Image"},
			{Name: "num_steps", Kind: model.FieldKindRange, Label: "Num Steps", Min: ptr(1), Max: ptr(50), Step: 1},
			{Name: "upscale", Kind: model.FieldKindBoolean, Label: "Upscale"},
		},
		Slots: []model.Slot{{Index: 0, Kind: model.SlotKindImage}, {Index: 1, Kind: model.SlotKindText}},
	}
}

func newTestServer(t *testing.T, predictor Predictor, opts ...Option) (*Server, afero.Fs) {
	t.Helper()

	renderer, err := web.New()
	require.NoError(t, err)
	files := afero.NewMemMapFs()
	opts = append([]Option{WithFileSystem(files), WithUploadDir("/data/uploads"), WithMediaDir("/data/media")}, opts...)
	srv, err := New(testForm(), renderer, predictor, opts...)
	require.NoError(t, err)
	return srv, files
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, fields map[string][]string, files map[string][]byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, values := range fields {
		for _, value := range values {
			require.NoError(t, writer.WriteField(name, value))
		}
	}
	for name, data := range files {
		part, err := writer.CreateFormFile(name, name+".png")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/predict", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandler_FormPage(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `action="/predict"`)
	assert.Contains(t, rec.Body.String(), `name="num_steps"`)
}

func TestHandler_Healthz(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHandler_UnknownPath(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_PredictMultipart(t *testing.T) {
	predictor := &stubPredictor{result: &outputs.Result{Artifacts: []outputs.Artifact{
		{Kind: outputs.ArtifactImage, Data: []byte("png"), MIME: "image/png"},
		{Kind: outputs.ArtifactValue, Value: "done"},
	}}}
	srv, files := newTestServer(t, predictor)

	req := multipartRequest(t,
		map[string][]string{"prompt": {"a cat"}, "num_steps": {"30"}, "upscale": {"false", "true"}},
		map[string][]byte{"image": pngBytes(t)},
	)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, `<img src="data:image/png;base64,cG5n" alt="Output 0">`)
	assert.Contains(t, body, `<pre>done</pre>`)
	assert.Contains(t, body, `a cat</textarea>`)

	values := predictor.lastCall()
	require.Len(t, values, 4)
	assert.Equal(t, model.Value{Name: "prompt", Value: "a cat"}, values[0])
	assert.Equal(t, "image", values[1].Name)
	uploaded, ok := values[1].Value.(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(uploaded, "/data/uploads/"))
	assert.True(t, strings.HasSuffix(uploaded, ".png"))
	exists, err := afero.Exists(files, uploaded)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, model.Value{Name: "num_steps", Value: int64(30)}, values[2])
	assert.Equal(t, model.Value{Name: "upscale", Value: true}, values[3])
}

func TestHandler_PredictURLEncoded(t *testing.T) {
	predictor := &stubPredictor{result: &outputs.Result{Artifacts: []outputs.Artifact{outputs.Hidden(), outputs.Hidden()}}}
	srv, _ := newTestServer(t, predictor)

	form := url.Values{"prompt": {"hello"}, "upscale": {"false"}}
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []model.Value{
		{Name: "prompt", Value: "hello"},
		{Name: "upscale", Value: false},
	}, predictor.lastCall())
}

func TestHandler_PredictFieldErrors(t *testing.T) {
	predictor := &stubPredictor{}
	srv, _ := newTestServer(t, predictor)

	req := multipartRequest(t,
		map[string][]string{"prompt": {"a cat"}, "num_steps": {"lots"}},
		map[string][]byte{"image": []byte("not an image at all")},
	)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `is not an accepted image file`)
	assert.Contains(t, body, `model: field &quot;num_steps&quot;`)
	assert.Empty(t, predictor.calls)
}

func TestHandler_PredictFailureShowsMessage(t *testing.T) {
	predictor := &stubPredictor{err: &predict.Error{
		Op:         "submit",
		StatusCode: http.StatusInternalServerError,
		Message:    "The submission failed!",
		Err:        predict.ErrSubmissionFailed,
	}}
	srv, _ := newTestServer(t, predictor)

	req := multipartRequest(t, map[string][]string{"prompt": {"a cat"}}, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `<p class="cf-form-error" role="alert">The submission failed! Error: 500</p>`)
	assert.Contains(t, rec.Body.String(), `a cat</textarea>`)
}

func TestHandler_APIPredict(t *testing.T) {
	predictor := &stubPredictor{result: &outputs.Result{Artifacts: []outputs.Artifact{
		outputs.Hidden(),
		{Kind: outputs.ArtifactValue, Value: "done"},
	}}}
	srv, _ := newTestServer(t, predictor)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"input":{"prompt":"a cat","num_steps":12,"extra":"ignored"}}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Outputs, 2)
	assert.True(t, resp.Outputs[0].Hidden)
	assert.Equal(t, "done", resp.Outputs[1].Text)
	assert.Equal(t, []model.Value{
		{Name: "prompt", Value: "a cat"},
		{Name: "num_steps", Value: int64(12)},
	}, predictor.lastCall())
}

func TestHandler_APIPredictErrors(t *testing.T) {
	t.Run("bad body", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubPredictor{})
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader("{")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid field", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubPredictor{})
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"input":{"num_steps":"many"}}`)))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp apiResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Fields, "num_steps")
	})

	t.Run("predictor failure", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubPredictor{err: &predict.Error{Message: "The model is still warming up.", Err: predict.ErrWarmingUp}})
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"input":{}}`)))
		require.Equal(t, http.StatusBadGateway, rec.Code)
		var resp apiResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "The model is still warming up.", resp.Error)
	})
}

func TestHandler_ServesFilesFromAllowedDirs(t *testing.T) {
	srv, files := newTestServer(t, &stubPredictor{})
	require.NoError(t, afero.WriteFile(files, "/data/uploads/in.png", []byte("input"), 0o644))
	require.NoError(t, afero.WriteFile(files, "/data/media/out.wav", []byte("output"), 0o644))
	require.NoError(t, afero.WriteFile(files, "/etc/secret", []byte("nope"), 0o644))

	cases := []struct {
		path   string
		status int
		body   string
	}{
		{path: "/file=/data/uploads/in.png", status: http.StatusOK, body: "input"},
		{path: "/file=/data/media/out.wav", status: http.StatusOK, body: "output"},
		{path: "/file=/etc/secret", status: http.StatusNotFound},
		{path: "/file=/data/uploads", status: http.StatusNotFound},
		{path: "/file=relative.png", status: http.StatusNotFound},
		{path: "/file=/data/uploads/missing.png", status: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path = tc.path
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, rec.Body.String())
			}
		})
	}
}

func TestHandleFile_RejectsTraversal(t *testing.T) {
	srv, files := newTestServer(t, &stubPredictor{})
	require.NoError(t, afero.WriteFile(files, "/etc/secret", []byte("nope"), 0o644))

	// the mux redirects unclean paths, so call the handler directly
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "/file=/data/uploads/../../etc/secret"
	rec := httptest.NewRecorder()
	srv.handleFile(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBaseURL(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{})

	req := httptest.NewRequest(http.MethodPost, "http://demo.local:7860/predict", nil)
	assert.Equal(t, "http://demo.local:7860", srv.baseURL(req))

	req.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://demo.local:7860", srv.baseURL(req))

	req.Header.Set("X-Forwarded-Proto", "http, https")
	assert.Equal(t, "http://demo.local:7860", srv.baseURL(req))

	fixed, _ := newTestServer(t, &stubPredictor{}, WithPublicBaseURL("https://public.example/"))
	assert.Equal(t, "https://public.example", fixed.baseURL(req))
}

func TestNew_RequiresCollaborators(t *testing.T) {
	renderer, err := web.New()
	require.NoError(t, err)

	_, err = New(testForm(), nil, &stubPredictor{})
	assert.Error(t, err)
	_, err = New(testForm(), renderer, nil)
	assert.Error(t, err)
}
