package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docvault/internal/http/middleware"
	"docvault/internal/model"
	"docvault/internal/service"
	svcMocks "docvault/internal/service/mocks"
)

const testDocID = "7d444840-9dc0-11d1-b245-5ffdce74fad2"
const testGrantID = "8d444840-9dc0-11d1-b245-5ffdce74fad2"

var testCaller = service.Caller{
	ID:             "user-1",
	Email:          "user@example.com",
	IdentityNumber: "123456789010",
	SessionID:      "sess-1",
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

// stubAuth injects a fixed caller, standing in for the JWT middleware.
func stubAuth(caller service.Caller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.CallerLocalKey, caller)
		return c.Next()
	}
}

func newTestApp(docs service.DocumentService, shares service.SharingService, ping error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, fakePinger{err: ping}, docs, shares, stubAuth(testCaller))
	return app
}

func decodeBody(t *testing.T, r io.Reader, dest any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(dest))
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		app := newTestApp(nil, nil, nil)
		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("dependency down", func(t *testing.T) {
		app := newTestApp(nil, nil, errors.New("refused"))
		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := newTestApp(nil, nil, nil)
	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUploadDocument(t *testing.T) {
	docs := new(svcMocks.MockDocumentService)
	app := newTestApp(docs, nil, nil)

	docs.On("Upload", mock.Anything, testCaller, mock.MatchedBy(func(in service.UploadInput) bool {
		return in.FileName == "cert.pdf" &&
			in.Category == model.CategoryCertificate &&
			in.Description == "university degree certificate"
	})).Return(&model.Document{ID: testDocID, FileName: "cert.pdf"}, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "cert.pdf")
	require.NoError(t, err)
	fw.Write([]byte("%PDF-1.7"))
	mw.WriteField("category", "certificate")
	mw.WriteField("description", "university degree certificate")
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var doc model.Document
	decodeBody(t, resp.Body, &doc)
	assert.Equal(t, testDocID, doc.ID)
}

func TestUploadDocument_FileMissing(t *testing.T) {
	docs := new(svcMocks.MockDocumentService)
	app := newTestApp(docs, nil, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("category", "certificate")
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	docs.AssertNumberOfCalls(t, "Upload", 0)
}

func TestUploadDocument_ValidationDetails(t *testing.T) {
	docs := new(svcMocks.MockDocumentService)
	app := newTestApp(docs, nil, nil)

	docs.On("Upload", mock.Anything, testCaller, mock.Anything).
		Return(nil, &service.ValidationError{Violations: []string{"description must be at least 10 characters"}})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "cert.pdf")
	fw.Write([]byte("%PDF-1.7"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload errorPayload
	decodeBody(t, resp.Body, &payload)
	assert.Equal(t, "VALIDATION_FAILED", payload.Error.Code)
	assert.Contains(t, payload.Error.Details, "description must be at least 10 characters")
	assert.NotEmpty(t, payload.RequestID)
}

func TestListDocuments(t *testing.T) {
	docs := new(svcMocks.MockDocumentService)
	app := newTestApp(docs, nil, nil)

	docs.On("List", mock.Anything, testCaller, model.CategoryTaxID).
		Return([]model.Document{{ID: testDocID}}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/documents?category=tax-id", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data  []model.Document `json:"data"`
		Total int              `json:"total"`
	}
	decodeBody(t, resp.Body, &payload)
	assert.Equal(t, 1, payload.Total)
	assert.Equal(t, testDocID, payload.Data[0].ID)
}

func TestGetDocument_NotFound(t *testing.T) {
	docs := new(svcMocks.MockDocumentService)
	app := newTestApp(docs, nil, nil)

	docs.On("Get", mock.Anything, testCaller, testDocID).Return(nil, service.ErrNotFound)

	resp, err := app.Test(httptest.NewRequest("GET", "/documents/"+testDocID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetDocument_InvalidID(t *testing.T) {
	docs := new(svcMocks.MockDocumentService)
	app := newTestApp(docs, nil, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/documents/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	docs.AssertNumberOfCalls(t, "Get", 0)
}

func TestDownloadDocument_Forbidden(t *testing.T) {
	docs := new(svcMocks.MockDocumentService)
	app := newTestApp(docs, nil, nil)

	docs.On("Download", mock.Anything, testCaller, testDocID).Return(nil, service.ErrPermissionDenied)

	resp, err := app.Test(httptest.NewRequest("GET", "/documents/"+testDocID+"/download", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var payload errorPayload
	decodeBody(t, resp.Body, &payload)
	assert.Equal(t, "FORBIDDEN", payload.Error.Code)
}

func TestDownloadDocument_StorageDown(t *testing.T) {
	docs := new(svcMocks.MockDocumentService)
	app := newTestApp(docs, nil, nil)

	docs.On("Download", mock.Anything, testCaller, testDocID).Return(nil, service.ErrStorageFailure)

	resp, err := app.Test(httptest.NewRequest("GET", "/documents/"+testDocID+"/download", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestUpdateDocument(t *testing.T) {
	docs := new(svcMocks.MockDocumentService)
	app := newTestApp(docs, nil, nil)

	docs.On("Update", mock.Anything, testCaller, testDocID, mock.MatchedBy(func(p service.UpdatePatch) bool {
		return p.Category != nil && *p.Category == model.CategoryOther && p.Description == nil
	})).Return(&model.Document{ID: testDocID, Category: model.CategoryOther}, nil)

	req := httptest.NewRequest("PATCH", "/documents/"+testDocID, bytes.NewReader([]byte(`{"category":"other"}`)))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeleteDocument(t *testing.T) {
	docs := new(svcMocks.MockDocumentService)
	app := newTestApp(docs, nil, nil)

	docs.On("SoftDelete", mock.Anything, testCaller, testDocID).Return(nil)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/documents/"+testDocID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestShareDocument(t *testing.T) {
	shares := new(svcMocks.MockSharingService)
	app := newTestApp(nil, shares, nil)

	shares.On("Share", mock.Anything, testCaller, testDocID, service.ShareInput{
		Subject:    "friend@example.com",
		Permission: model.PermissionView,
	}).Return(&model.ShareGrant{ID: testGrantID, DocumentID: testDocID}, nil)

	body := bytes.NewReader([]byte(`{"subject":"friend@example.com","permission":"view"}`))
	req := httptest.NewRequest("POST", "/documents/"+testDocID+"/shares", body)
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var grant model.ShareGrant
	decodeBody(t, resp.Body, &grant)
	assert.Equal(t, testGrantID, grant.ID)
}

func TestRevokeShare(t *testing.T) {
	shares := new(svcMocks.MockSharingService)
	app := newTestApp(nil, shares, nil)

	shares.On("Revoke", mock.Anything, testCaller, testDocID, testGrantID).Return(nil)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/documents/"+testDocID+"/shares/"+testGrantID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestListSharedWithMe(t *testing.T) {
	shares := new(svcMocks.MockSharingService)
	app := newTestApp(nil, shares, nil)

	shares.On("ListSharedWithMe", mock.Anything, testCaller).
		Return([]service.SharedDocument{{Document: model.Document{ID: testDocID}, Permission: model.PermissionDownload}}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/documents/shared", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data []service.SharedDocument `json:"data"`
	}
	decodeBody(t, resp.Body, &payload)
	require.Len(t, payload.Data, 1)
	assert.Equal(t, model.PermissionDownload, payload.Data[0].Permission)
}

func TestUnauthenticatedRequest(t *testing.T) {
	// Real Auth middleware instead of the stub: no token means 401.
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, fakePinger{}, nil, nil, middleware.Auth("secret"))

	resp, err := app.Test(httptest.NewRequest("GET", "/documents", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var payload errorPayload
	decodeBody(t, resp.Body, &payload)
	assert.Equal(t, "UNAUTHORIZED", payload.Error.Code)
}
