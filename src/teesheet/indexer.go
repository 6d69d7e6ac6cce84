package teesheet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"teebox/src/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IndexDayParams struct {
	Date               string
	ProviderCourseID   string
	CourseID           uint
	ProviderTeeSheetID string
	ProviderID         string
	Provider           string
	Token              string
	EntityID           uint
}

type IndexResult struct {
	Insert []models.TeeTime `json:"insert"`
	Upsert []models.TeeTime `json:"upsert"`
	Remove []uint           `json:"remove"`
}

// Indexer refreshes one day of live tee-time inventory from the
// external tee-sheet provider. The provider protocol itself is a black
// box; the cart validator only needs the resulting slot counts.
type Indexer interface {
	IndexDay(ctx context.Context, params IndexDayParams) (*IndexResult, error)
}

type HTTPIndexer struct {
	host   string
	client *http.Client
}

func NewHTTPIndexer() *HTTPIndexer {
	return &HTTPIndexer{
		host: os.Getenv("PROVIDER_API_HOST"),
		// Provider indexing can be slow; bound it rather than hang a checkout.
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (i *HTTPIndexer) IndexDay(ctx context.Context, params IndexDayParams) (*IndexResult, error) {
	q := url.Values{}
	q.Set("date", params.Date)
	q.Set("course_id", params.ProviderCourseID)
	q.Set("tee_sheet_id", params.ProviderTeeSheetID)
	q.Set("provider_id", params.ProviderID)
	q.Set("provider", params.Provider)
	q.Set("entity_id", fmt.Sprint(params.EntityID))
	endpoint := fmt.Sprintf("%s/index/day?%s", i.host, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", params.Token))
	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("teesheet: index day %s for course %d: %w", params.Date, params.CourseID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("teesheet: index day %s for course %d: unexpected status %d", params.Date, params.CourseID, resp.StatusCode)
	}
	var result IndexResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("teesheet: decode index response: %w", err)
	}
	for idx := range result.Insert {
		result.Insert[idx].CourseID = params.CourseID
	}
	for idx := range result.Upsert {
		result.Upsert[idx].CourseID = params.CourseID
	}
	return &result, nil
}

// SaveTeeTimes persists a refreshed day of inventory in one transaction.
func SaveTeeTimes(db *gorm.DB, result *IndexResult) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if len(result.Insert) > 0 {
			if err := tx.Create(&result.Insert).Error; err != nil {
				return err
			}
		}
		if len(result.Upsert) > 0 {
			if err := tx.
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "provider_ref"}},
					UpdateAll: true,
				}).
				Create(&result.Upsert).
				Error; err != nil {
				return err
			}
		}
		if len(result.Remove) > 0 {
			if err := tx.Delete(&models.TeeTime{}, result.Remove).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
