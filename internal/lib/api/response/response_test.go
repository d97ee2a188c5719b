package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON_EmbeddedEnvelope(t *testing.T) {
	payload := struct {
		Response
		LinkID int64 `json:"link_id"`
	}{Response: OK(), LinkID: 7}

	rec := httptest.NewRecorder()
	NewJSON(rec, nil, http.StatusCreated, payload)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"link_id":7}`, rec.Body.String())
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, nil, http.StatusNotFound, "link not found")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "link not found", body["error"])
}

func TestValidationError(t *testing.T) {
	req := struct {
		TargetURL string `json:"target_url" validate:"required,url"`
		UserID    int64  `json:"user_id" validate:"required"`
	}{TargetURL: "not a url"}

	err := validator.New().Struct(req)
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "TargetURL is not a valid URL")
	assert.Contains(t, resp.Error, "UserID is a required field")
}
