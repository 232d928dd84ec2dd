// Package usecase builds value distributions of an attribute for charting.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidArgument is returned for a bucket count outside [1, MaxBuckets] or an attribute without values.
var ErrInvalidArgument = errors.New("invalid argument")

// MaxBuckets は1つのヒストグラムに作れるバケット数の上限です。
const MaxBuckets = 1000

// ValueReader は属性の保存済みの値をすべて返します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type ValueReader interface {
	ListValues(ctx context.Context, attributeID uint) ([]decimal.Decimal, error)
}

// ChartRenderer turns a histogram into an image URL.
type ChartRenderer interface {
	URL(h Histogram) string
}

// Bucket is the closed range [Lower, Upper] and the number of values inside it.
type Bucket struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
	Count int
}

// Histogram is the distribution of one attribute's values.
// CountMin and CountMax are the smallest and largest bucket counts.
type Histogram struct {
	AttributeID uint
	Low         decimal.Decimal
	High        decimal.Decimal
	Buckets     []Bucket
	CountMin    int
	CountMax    int
}

// Counts returns the bucket counts in order.
func (h Histogram) Counts() []int {
	out := make([]int, 0, len(h.Buckets))
	for _, b := range h.Buckets {
		out = append(out, b.Count)
	}
	return out
}

// HistogramUsecase builds histograms and chart URLs.
type HistogramUsecase struct {
	values   ValueReader
	renderer ChartRenderer
	buckets  int
}

// NewHistogramUsecase creates a HistogramUsecase. defaultBuckets is used by
// ChartURL.
func NewHistogramUsecase(values ValueReader, renderer ChartRenderer, defaultBuckets int) *HistogramUsecase {
	return &HistogramUsecase{values: values, renderer: renderer, buckets: defaultBuckets}
}

// BuildBuckets splits [min, max] of the attribute's values into bucketCount
// equal-width buckets and counts the values in each.
//
// Bounds are inclusive, so a value on a shared edge is counted by both
// neighbours. When all values are equal every bucket holds all of them.
func (u *HistogramUsecase) BuildBuckets(ctx context.Context, attributeID uint, bucketCount int) (Histogram, error) {
	if bucketCount <= 0 || bucketCount > MaxBuckets {
		return Histogram{}, fmt.Errorf("%w: bucket count %d", ErrInvalidArgument, bucketCount)
	}
	values, err := u.values.ListValues(ctx, attributeID)
	if err != nil {
		return Histogram{}, err
	}
	if len(values) == 0 {
		return Histogram{}, fmt.Errorf("%w: attribute %d has no values", ErrInvalidArgument, attributeID)
	}

	low, high := decimal.Min(values[0], values[1:]...), decimal.Max(values[0], values[1:]...)
	width := high.Sub(low).Div(decimal.NewFromInt(int64(bucketCount)))

	h := Histogram{
		AttributeID: attributeID,
		Low:         low,
		High:        high,
		Buckets:     make([]Bucket, 0, bucketCount),
	}
	for i := 0; i < bucketCount; i++ {
		lower := low.Add(width.Mul(decimal.NewFromInt(int64(i))))
		upper := lower.Add(width)
		if i == bucketCount-1 {
			upper = high
		}

		count := 0
		for _, v := range values {
			if v.GreaterThanOrEqual(lower) && v.LessThanOrEqual(upper) {
				count++
			}
		}

		if i == 0 || count < h.CountMin {
			h.CountMin = count
		}
		if i == 0 || count > h.CountMax {
			h.CountMax = count
		}
		h.Buckets = append(h.Buckets, Bucket{Lower: lower, Upper: upper, Count: count})
	}
	return h, nil
}

// ChartURL builds the default histogram of the attribute and renders it.
func (u *HistogramUsecase) ChartURL(ctx context.Context, attributeID uint) (string, error) {
	h, err := u.BuildBuckets(ctx, attributeID, u.buckets)
	if err != nil {
		return "", err
	}
	return u.renderer.URL(h), nil
}
