package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"pickup/src/lib"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

const (
	testAuth = "Bearer test-token"
	goodCode = "QQ7X2M"
)

type stubBackend struct {
	server *httptest.Server
	hits   int32
}

// newStubBackend emulates the marketplace API: the donor's credential
// is QQ7X2M, everything else is rejected with a business-rule message.
func newStubBackend(t *testing.T) *stubBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)
	stub := &stubBackend{}

	complete := func(ctx *gin.Context, code string) {
		if code != goodCode {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired confirmation code"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{
			"message": "Pickup confirmed",
			"data": gin.H{
				"id":     42,
				"status": "completed",
				"donor":  gin.H{"name": "Sunrise Hotel"},
			},
		})
	}

	router := gin.New()
	router.PUT("/requests/complete-by-code", func(ctx *gin.Context) {
		atomic.AddInt32(&stub.hits, 1)
		var body struct {
			ConfirmationCode string `json:"confirmationCode"`
		}
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		complete(ctx, body.ConfirmationCode)
	})
	router.PUT("/requests/complete-qr", func(ctx *gin.Context) {
		atomic.AddInt32(&stub.hits, 1)
		var body struct {
			QrData string `json:"qrData"`
		}
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		complete(ctx, gjson.Get(body.QrData, "confirmationCode").String())
	})
	router.PUT("/requests/:id/complete", func(ctx *gin.Context) {
		atomic.AddInt32(&stub.hits, 1)
		var body struct {
			ConfirmationCode string `json:"confirmationCode"`
		}
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		complete(ctx, body.ConfirmationCode)
	})

	stub.server = httptest.NewServer(router)
	t.Cleanup(stub.server.Close)
	lib.NewBackendClient(lib.NewClient(stub.server.URL))
	return stub
}

func (s *stubBackend) Hits() int32 {
	return atomic.LoadInt32(&s.hits)
}

func TestSubmitCodeNormalizesBeforeSending(t *testing.T) {
	stub := newStubBackend(t)
	coord := &Coordinator{}

	lower := coord.SubmitCode(context.Background(), testAuth, "qq7x2m")
	assert.True(t, lower.OK)

	upper := coord.SubmitCode(context.Background(), testAuth, "QQ7X2M")
	assert.True(t, upper.OK)

	assert.Equal(t, int32(2), stub.Hits())
	assert.Equal(t, lower.Data, upper.Data, "both spellings must produce the identical submission")
}

func TestSubmitCodeRejectsEmptyBeforeNetwork(t *testing.T) {
	stub := newStubBackend(t)
	coord := &Coordinator{}

	outcome := coord.SubmitCode(context.Background(), testAuth, "   ")
	assert.False(t, outcome.OK)
	assert.Equal(t, MSG_EMPTY_CODE, outcome.Message)
	assert.Equal(t, int32(0), stub.Hits())

	outcome = coord.SubmitCode(context.Background(), testAuth, "AB12")
	assert.False(t, outcome.OK)
	assert.Equal(t, MSG_INVALID_CODE, outcome.Message)
	assert.Equal(t, int32(0), stub.Hits())
}

func TestSubmitCodeSurfacesBackendMessage(t *testing.T) {
	stub := newStubBackend(t)
	coord := &Coordinator{}

	outcome := coord.SubmitCode(context.Background(), testAuth, "ZZ9Z9Z")
	assert.False(t, outcome.OK)
	assert.Equal(t, "Invalid or expired confirmation code", outcome.Message)
	assert.Equal(t, int32(1), stub.Hits())
}

func TestSubmitQrEnforcesSentinelWithoutNetwork(t *testing.T) {
	stub := newStubBackend(t)
	coord := &Coordinator{}

	outcome := coord.SubmitQr(context.Background(), testAuth, `{"type":"SOME_OTHER_APP"}`)
	assert.False(t, outcome.OK)
	assert.Equal(t, MSG_FOREIGN_QR, outcome.Message)
	assert.Equal(t, int32(0), stub.Hits())
}

func TestSubmitQrMalformedFallsBackWithoutNetwork(t *testing.T) {
	stub := newStubBackend(t)
	coord := &Coordinator{}

	outcome := coord.SubmitQr(context.Background(), testAuth, "not-a-json-payload")
	assert.False(t, outcome.OK)
	assert.Equal(t, MSG_INVALID_QR_FORMAT, outcome.Message)
	assert.Equal(t, int32(0), stub.Hits())
}

func TestSubmitQrForwardsValidPayload(t *testing.T) {
	stub := newStubBackend(t)
	coord := &Coordinator{}

	outcome := coord.SubmitQr(context.Background(), testAuth, `{"type":"FOOD_DONATION_PICKUP","confirmationCode":"QQ7X2M"}`)
	assert.True(t, outcome.OK)
	assert.Equal(t, int32(1), stub.Hits())
	assert.Equal(t, "Sunrise Hotel", gjson.GetBytes(outcome.Data, "donor.name").String())
}

func TestSubmitCodeForRequest(t *testing.T) {
	stub := newStubBackend(t)
	coord := &Coordinator{}

	outcome := coord.SubmitCodeForRequest(context.Background(), testAuth, 42, "qq7x2m")
	assert.True(t, outcome.OK)
	assert.Equal(t, int32(1), stub.Hits())
}

func TestSuccessDispatchesRatingPrompt(t *testing.T) {
	newStubBackend(t)

	var promptedDonor string
	coord := &Coordinator{OnConfirmed: NotifyRatingPrompt}
	SetRatingHandler(func(donorName string, data []byte) {
		promptedDonor = donorName
	})

	outcome := coord.SubmitCode(context.Background(), testAuth, goodCode)
	assert.True(t, outcome.OK)
	assert.Equal(t, "Sunrise Hotel", promptedDonor)
}
