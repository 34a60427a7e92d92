package window

import (
	"errors"
	"fmt"
	"math"
)

var (
	errEmptyCoeffs      = errors.New("window coefficients must not be empty")
	errZeroCoherentGain = errors.New("window coherent gain is zero")
)

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d", size)
	}

	return nil
}

func validateKaiser(size int, beta float64) error {
	if err := validateLength(size); err != nil {
		return err
	}

	if beta < 0 || math.IsNaN(beta) {
		return fmt.Errorf("kaiser beta must be >= 0: %f", beta)
	}

	return nil
}
