// Package client is the HTTP consumer of the gallery API: it fetches a
// category's works with retry and reports progress through a Notifier the
// way the browse surface surfaces loading state.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"young-portfolio/config"
	"young-portfolio/model"
)

// Notifier receives the lifecycle of one fetch. Implementations must be
// safe for reuse across requests.
type Notifier interface {
	Loading(message string)
	Success(message string)
	Error(message string)
}

// ZapNotifier logs lifecycle notifications.
type ZapNotifier struct {
	Log *zap.Logger
}

func (n ZapNotifier) Loading(message string) { n.Log.Info("loading", zap.String("message", message)) }
func (n ZapNotifier) Success(message string) { n.Log.Info("success", zap.String("message", message)) }
func (n ZapNotifier) Error(message string)   { n.Log.Warn("error", zap.String("message", message)) }

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Loading(string) {}
func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// Client calls the gallery API. Failed requests are retried with a linearly
// growing delay before the last error is surfaced.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Retries int
	Delay   time.Duration
	Notify  Notifier
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: config.RequestTimeout},
		Retries: config.RetryAttempts,
		Delay:   config.RetryDelay,
		Notify:  NopNotifier{},
	}
}

type categoryResponse struct {
	Success    bool           `json:"success"`
	Error      string         `json:"error"`
	Images     []workRecord   `json:"images"`
	EventStats map[string]int `json:"eventStats"`
}

type workRecord struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	Title       string       `json:"title"`
	Description string       `json:"content"`
	Category    string       `json:"category"`
	Time        string       `json:"time"`
	Event       *model.Event `json:"event"`
	Visible     bool         `json:"visible"`
	Color       string       `json:"color"`
	Tags        []string     `json:"tags"`
	Camera      string       `json:"camera"`
	Model       string       `json:"model"`
	FocalLength float64      `json:"focalLength"`
	Aperture    float64      `json:"aperture"`
	ISO         int          `json:"iso"`
	Shutter     float64      `json:"shutterSpeed"`
}

func (r workRecord) toWork(cat model.Category) model.Work {
	w := model.Work{
		ID:          r.ID,
		Filename:    r.Filename,
		Title:       r.Title,
		Description: r.Description,
		Category:    cat,
		RawTime:     r.Time,
		Event:       r.Event,
		Visible:     r.Visible,
	}
	w.Time, w.TimeValid = model.ParseWorkTime(r.Time)
	if cat == model.CategoryDigital {
		w.Digital = &model.DigitalInfo{Color: r.Color}
	} else {
		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}
		w.Photo = &model.PhotoInfo{
			Tags:         tags,
			Camera:       r.Camera,
			Model:        r.Model,
			FocalLength:  r.FocalLength,
			Aperture:     r.Aperture,
			ISO:          r.ISO,
			ShutterSpeed: r.Shutter,
		}
	}
	return w
}

// FetchCategory loads one category's works and event statistics. The initial
// request is followed by up to Retries retries, so Retries+1 requests total;
// each failed attempt waits Delay multiplied by the attempt number before the
// next one. The error of the final attempt is returned when every attempt
// fails.
func (c *Client) FetchCategory(ctx context.Context, cat model.Category) ([]model.Work, map[string]int, error) {
	c.Notify.Loading("載入作品中...")

	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		works, stats, err := c.fetchOnce(ctx, cat)
		if err == nil {
			c.Notify.Success("作品載入完成")
			return works, stats, nil
		}
		lastErr = err

		if attempt < c.Retries {
			select {
			case <-time.After(c.Delay * time.Duration(attempt+1)):
			case <-ctx.Done():
				c.Notify.Error("作品載入失敗")
				return nil, nil, ctx.Err()
			}
		}
	}

	c.Notify.Error("作品載入失敗")
	return nil, nil, fmt.Errorf("fetch %s after %d attempts: %w", cat, c.Retries+1, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, cat model.Category) ([]model.Work, map[string]int, error) {
	url := c.BaseURL + "/api/gallery?category=" + string(cat)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body categoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, nil, fmt.Errorf("decode response: %w", err)
	}
	if !body.Success {
		return nil, nil, fmt.Errorf("server error: %s", body.Error)
	}

	works := make([]model.Work, 0, len(body.Images))
	for _, rec := range body.Images {
		works = append(works, rec.toWork(cat))
	}
	return works, body.EventStats, nil
}
