package promo

import (
	"testing"
	"time"

	"teebox/src/db"
	"teebox/src/models"
	"teebox/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func promoCode() models.PromoCode {
	startsAt := time.Now().Add(-24 * time.Hour)
	expiresAt := time.Now().Add(24 * time.Hour)
	return models.PromoCode{
		ID:                    1,
		Code:                  "SPRING10",
		DiscountType:          types.DISCOUNT_PERCENTAGE,
		DiscountValue:         10,
		StartsAt:              &startsAt,
		ExpiresAt:             &expiresAt,
		MaxRedemptions:        100,
		MaxRedemptionsPerUser: 1,
	}
}

func TestEligibleActiveGlobalCode(t *testing.T) {
	d := Eligible(promoCode(), 0, 0, 12, time.Now())

	assert.Equal(t, int64(10), d.Value)
	assert.Equal(t, types.DISCOUNT_PERCENTAGE, d.Type)
}

func TestEligibleOutsideValidityWindow(t *testing.T) {
	pc := promoCode()

	d := Eligible(pc, 0, 0, 12, pc.ExpiresAt.Add(time.Hour))
	assert.Zero(t, d.Value)

	d = Eligible(pc, 0, 0, 12, pc.StartsAt.Add(-time.Hour))
	assert.Zero(t, d.Value)
}

func TestEligibleGlobalCapExhausted(t *testing.T) {
	d := Eligible(promoCode(), 100, 0, 12, time.Now())
	assert.Zero(t, d.Value)
}

func TestEligiblePerUserCapExhausted(t *testing.T) {
	d := Eligible(promoCode(), 5, 1, 12, time.Now())
	assert.Zero(t, d.Value)
}

func TestEligibleCourseScoping(t *testing.T) {
	pc := promoCode()
	courseId := uint(3)
	pc.CourseID = &courseId

	d := Eligible(pc, 0, 0, 3, time.Now())
	assert.Equal(t, int64(10), d.Value)

	d = Eligible(pc, 0, 0, 4, time.Now())
	assert.Zero(t, d.Value)
}

func TestEligibleUncappedCode(t *testing.T) {
	pc := promoCode()
	pc.MaxRedemptions = 0
	pc.MaxRedemptionsPerUser = 0

	d := Eligible(pc, 10000, 50, 12, time.Now())
	assert.Equal(t, int64(10), d.Value)
}

func TestValidateMissingCode(t *testing.T) {
	gormDB, mock := db.NewMockDB()
	v := NewValidator(gormDB)

	mock.ExpectQuery(`SELECT (.+) FROM "promo_codes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	d, err := v.Validate(1, "NOPE", 12)
	assert.Nil(t, err)
	assert.Zero(t, d.Value)
}

func TestValidateCountsRedemptions(t *testing.T) {
	gormDB, mock := db.NewMockDB()
	v := NewValidator(gormDB)

	expiresAt := time.Now().Add(time.Hour)
	mock.ExpectQuery(`SELECT (.+) FROM "promo_codes"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "code", "discount_type", "discount_value", "expires_at", "max_redemptions", "max_redemptions_per_user"}).
			AddRow(1, "SPRING10", "AMOUNT", 500, expiresAt, 10, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "promo_redemptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "promo_redemptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	d, err := v.Validate(1, "SPRING10", 12)
	assert.Nil(t, err)
	assert.Equal(t, int64(500), d.Value)
	assert.Equal(t, types.DISCOUNT_AMOUNT, d.Type)
}
