package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"league_stats/internal/scoresheet"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"data error", &scoresheet.DataError{Kind: scoresheet.ErrInvalidAnswerValue, Column: "c", Row: 3, Value: "x"}, http.StatusUnprocessableEntity},
		{"wrapped data error", fmt.Errorf("round 1: %w", &scoresheet.DataError{Kind: scoresheet.ErrMalformedHeader, Row: -1}), http.StatusUnprocessableEntity},
		{"empty table", scoresheet.ErrEmptyTable, http.StatusUnprocessableEntity},
		{"series", fmt.Errorf("%w: x", ErrSeriesNotFound), http.StatusNotFound},
		{"round", ErrRoundNotFound, http.StatusNotFound},
		{"game", ErrGameNotFound, http.StatusNotFound},
		{"topic", ErrTopicNotFound, http.StatusNotFound},
		{"no chart data", ErrNoChartData, http.StatusNotFound},
		{"split key", fmt.Errorf("%w: colour", scoresheet.ErrUnknownSplitKey), http.StatusBadRequest},
		{"question order", scoresheet.ErrUnknownQuestionOrder, http.StatusBadRequest},
		{"invalid round", ErrInvalidRound, http.StatusBadRequest},
		{"upload type", ErrInvalidUploadType, http.StatusBadRequest},
		{"read only", ErrReadOnlySource, http.StatusConflict},
		{"source down", fmt.Errorf("%w: timeout", ErrSourceUnavailable), http.StatusBadGateway},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleError(c, tt.err)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			var resp Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tt.want {
				t.Errorf("body code = %d, want %d", resp.Code, tt.want)
			}
			if tt.want == http.StatusInternalServerError && strings.Contains(resp.Message, "disk") {
				t.Error("internal error details must not leak to clients")
			}
		})
	}
}

func TestUnprocessableEntity_Detail(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	UnprocessableEntity(c, &scoresheet.DataError{Kind: scoresheet.ErrMalformedHeader, Column: "Гра", Row: -1})

	var resp struct {
		Data DataErrorDetail `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Kind != "malformed_header" || resp.Data.Column != "Гра" {
		t.Errorf("unexpected detail: %+v", resp.Data)
	}
	if resp.Data.Row != nil {
		t.Errorf("row should be omitted for header errors, got %d", *resp.Data.Row)
	}
}

func TestIssueAdminToken(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	token, err := IssueAdminToken("ops", secret, time.Hour)
	if err != nil {
		t.Fatalf("IssueAdminToken: %v", err)
	}
	claims, err := ParseJWT(token, secret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.Subject != "ops" || claims.Role != RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}

	tests := []struct {
		name    string
		subject string
		secret  string
		ttl     time.Duration
	}{
		{"empty secret", "ops", "", time.Hour},
		{"empty subject", "", secret, time.Hour},
		{"zero lifetime", "ops", secret, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := IssueAdminToken(tt.subject, tt.secret, tt.ttl); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestJWT_RoundTrip(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	token, err := GenerateJWT("ops", RoleAdmin, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, secret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.Subject != "ops" || claims.Role != RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := ParseJWT(token, "wrong-secret"); err == nil {
		t.Error("expected signature error")
	}
	if _, err := ParseJWT("not.a.token", secret); err == nil {
		t.Error("expected parse error")
	}
}

func TestIsSheetFile(t *testing.T) {
	for name, want := range map[string]bool{
		"1.csv":      true,
		"ROUND.CSV":  true,
		"export.txt": true,
		"1.xlsx":     false,
		"csv":        false,
	} {
		if got := IsSheetFile(name); got != want {
			t.Errorf("IsSheetFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestValidateMimeType(t *testing.T) {
	if _, err := ValidateMimeType(strings.NewReader("Тема,Питання\n1,2\n"), []string{MimeText}); err != nil {
		t.Errorf("csv rejected: %v", err)
	}
	if _, err := ValidateMimeType(strings.NewReader("\x89PNG\r\n\x1a\n\x00"), []string{MimeText}); err == nil {
		t.Error("png accepted as text")
	}
}
