package analytics

import (
	"math"

	"github.com/vytor/studytracker/internal/models"
)

// minPoints is the smallest sample a line is fitted to.
const minPoints = 2

// degenerateEpsilon bounds the least-squares denominator below which all x
// values are considered identical.
const degenerateEpsilon = 1e-9

type Point struct {
	X float64
	Y float64
}

// Fit returns the ordinary least-squares line through points, or nil when
// there are fewer than two points or every x is the same.
func Fit(points []Point) *models.Prediction {
	n := float64(len(points))
	if len(points) < minPoints {
		return nil
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
	}

	den := n*sumXX - sumX*sumX
	if math.Abs(den) < degenerateEpsilon {
		return nil
	}

	slope := (n*sumXY - sumX*sumY) / den
	intercept := (sumY - slope*sumX) / n

	return &models.Prediction{
		Slope:     slope,
		Intercept: intercept,
		Points:    len(points),
		RSquared:  rSquared(points, slope, intercept, sumY/n),
	}
}

func rSquared(points []Point, slope, intercept, meanY float64) float64 {
	var ssRes, ssTot float64
	for _, p := range points {
		fitted := slope*p.X + intercept
		ssRes += (p.Y - fitted) * (p.Y - fitted)
		ssTot += (p.Y - meanY) * (p.Y - meanY)
	}
	if ssTot == 0 {
		// Flat y: the horizontal line explains everything.
		return 1
	}
	return 1 - ssRes/ssTot
}

// HoursFor solves the line for the hours that yield grade. ok is false when
// there is no line or its slope is zero.
func HoursFor(p *models.Prediction, grade float64) (hours float64, ok bool) {
	if p == nil || p.Slope == 0 {
		return 0, false
	}
	return (grade - p.Intercept) / p.Slope, true
}
