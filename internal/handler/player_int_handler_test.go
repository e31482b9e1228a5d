package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/echoes-intel/playint/internal/service"
	"github.com/echoes-intel/playint/internal/web"
	"github.com/echoes-intel/playint/pkg/killmail"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "region,constellation,system,date_killed\n"

// killmailServer serves one row per killer page and fails page 3
func killmailServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		q := r.URL.Query()
		if q.Get("page") == "3" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		if q.Get("killer_name") != "" {
			_, _ = w.Write([]byte(csvHeader + "Delve,1P-WGB,1DQ1-A,2024-01-01 05:00:00\n"))
			return
		}
		_, _ = w.Write([]byte(csvHeader))
	}))
}

func newPlayerIntRouter(t *testing.T, baseURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	svc := service.NewPlayerIntService(killmail.NewClient(baseURL, 10, 5*time.Second), service.PlayerIntOptions{})
	h := NewPlayerIntHandler(svc)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.GET("/player-int", h.Page)
	router.GET("/player-int/submit", h.Submit)
	router.GET("/api/v1/player-int", h.Report)
	return router
}

func get(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestPlayerIntPage(t *testing.T) {
	router := newPlayerIntRouter(t, "http://127.0.0.1:1")

	w := get(router, "/player-int")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `action="/player-int/submit"`)
	assert.NotContains(t, body, `class="error"`)
	assert.Contains(t, body, `name="kill" value="1" checked`)
	assert.Contains(t, body, `name="death" value="1" checked`)
	assert.NotContains(t, body, "killmails)")
}

func TestPlayerIntSubmit_DropsFailedPage(t *testing.T) {
	var hits int32
	srv := killmailServer(t, &hits)
	defer srv.Close()
	router := newPlayerIntRouter(t, srv.URL)

	w := get(router, "/player-int/submit?name=Bob&kill=1")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Bob (9 killmails)")
	assert.Contains(t, body, "1DQ1-A")
	assert.Contains(t, body, "height:300px")
	assert.Equal(t, int32(10), atomic.LoadInt32(&hits))
}

func TestPlayerIntSubmit_ValidationRendersOnPage(t *testing.T) {
	var hits int32
	srv := killmailServer(t, &hits)
	defer srv.Close()
	router := newPlayerIntRouter(t, srv.URL)

	w := get(router, "/player-int/submit?name=%20%20")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a player name.")

	w = get(router, "/player-int/submit?name=Bob&start=not-a-date&kill=1")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Invalid start date")
	// 입력값은 폼에 남고 리포트 영역은 비어 있음
	assert.Contains(t, body, `name="name" placeholder="Player name" value="Bob"`)
	assert.Contains(t, body, `value="not-a-date"`)
	assert.Contains(t, body, `name="kill" value="1" checked`)
	assert.NotContains(t, body, `name="death" value="1" checked`)
	assert.NotContains(t, body, "killmails)")
	assert.NotContains(t, body, "No killmails found.")
	assert.NotContains(t, body, "Activity by hour")
	assert.NotContains(t, body, `class="region"`)

	w = get(router, "/player-int/submit?name=Bob&start=1/2/3/4/5")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid start date")

	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestPlayerIntReport_JSON(t *testing.T) {
	var hits int32
	srv := killmailServer(t, &hits)
	defer srv.Close()
	router := newPlayerIntRouter(t, srv.URL)

	w := get(router, "/api/v1/player-int?name=Bob")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			PlayerName string `json:"playerName"`
			Total      int    `json:"total"`
			TopRegions []struct {
				Name    string  `json:"name"`
				Count   int     `json:"count"`
				Percent float64 `json:"percent"`
				Color   string  `json:"color"`
			} `json:"topRegions"`
			HourlyPercentages []struct {
				Hour    string  `json:"hour"`
				Percent float64 `json:"percent"`
			} `json:"hourlyPercentages"`
			KillSelected  bool `json:"killSelected"`
			DeathSelected bool `json:"deathSelected"`
		} `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "Bob", resp.Data.PlayerName)
	assert.Equal(t, 9, resp.Data.Total)
	assert.Equal(t, 9, resp.Meta.Total)
	require.Len(t, resp.Data.TopRegions, 1)
	assert.Equal(t, "Delve", resp.Data.TopRegions[0].Name)
	assert.Equal(t, 100.0, resp.Data.TopRegions[0].Percent)
	assert.Equal(t, "rgb(255,0,0)", resp.Data.TopRegions[0].Color)
	require.Len(t, resp.Data.HourlyPercentages, 24)
	assert.Equal(t, "05", resp.Data.HourlyPercentages[5].Hour)
	assert.Equal(t, 100.0, resp.Data.HourlyPercentages[5].Percent)
	assert.True(t, resp.Data.KillSelected)
	assert.True(t, resp.Data.DeathSelected)
	// 두 방향 모두 10페이지씩
	assert.Equal(t, int32(20), atomic.LoadInt32(&hits))
}

func TestPlayerIntReport_ValidationIs400(t *testing.T) {
	router := newPlayerIntRouter(t, "http://127.0.0.1:1")

	w := get(router, "/api/v1/player-int?name=Bob&end=garbage")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"BAD_REQUEST"`)
	assert.Contains(t, w.Body.String(), "Invalid end date")
}
