package sparse

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNoConvergence reports that the iteration limit was reached before
	// the residual dropped below the tolerance.
	ErrNoConvergence = errors.New("sparse: iteration limit reached without convergence")
	// ErrBreakdown reports a numerical breakdown of the recurrence, which
	// typically means the system is singular or badly conditioned.
	ErrBreakdown = errors.New("sparse: numerical breakdown in BiCGSTAB")
)

// Settings control an iterative solve. Zero values select defaults.
type Settings struct {
	// MaxIterations bounds the number of BiCGSTAB iterations per solve.
	// Zero means twice the system size.
	MaxIterations int
	// Tolerance is the relative residual target |b-Ax|/|b|.
	// Zero means 1e-10.
	Tolerance float64
}

const defaultTolerance = 1e-10

// BiCGStab solves Ax=b for a sparse, possibly non-symmetric A using the
// stabilized bi-conjugate gradient method with a Jacobi preconditioner.
// The preconditioner is prepared once from the matrix diagonal so several
// right-hand sides can be solved against the same prepared system.
type BiCGStab struct {
	a        *CSR
	invDiag  []float64
	settings Settings

	iterations int
	residual   float64
}

// NewBiCGStab prepares a solver for the given square matrix.
func NewBiCGStab(a *CSR, settings Settings) (*BiCGStab, error) {
	rows, cols := a.Dims()
	if rows != cols {
		return nil, fmt.Errorf("sparse: BiCGSTAB requires a square matrix, got %dx%d", rows, cols)
	}
	if settings.MaxIterations < 0 {
		return nil, fmt.Errorf("sparse: negative iteration limit %d", settings.MaxIterations)
	}
	if settings.Tolerance < 0 {
		return nil, fmt.Errorf("sparse: negative tolerance %g", settings.Tolerance)
	}
	if settings.MaxIterations == 0 {
		settings.MaxIterations = 2 * rows
	}
	if settings.Tolerance == 0 {
		settings.Tolerance = defaultTolerance
	}

	// Jacobi preconditioner: invert the diagonal where it is non-zero,
	// fall back to identity elsewhere.
	invDiag := a.Diagonal(nil)
	for i, d := range invDiag {
		if d != 0 {
			invDiag[i] = 1 / d
		} else {
			invDiag[i] = 1
		}
	}

	return &BiCGStab{
		a:        a,
		invDiag:  invDiag,
		settings: settings,
	}, nil
}

// Iterations returns the iteration count of the most recent solve.
func (s *BiCGStab) Iterations() int {
	return s.iterations
}

// Residual returns the relative residual of the most recent solve.
func (s *BiCGStab) Residual() float64 {
	return s.residual
}

// Solve runs the preconditioned BiCGSTAB recurrence for one right-hand
// side. It does not modify the prepared matrix or preconditioner, so it
// may be called repeatedly with different right-hand sides.
func (s *BiCGStab) Solve(b *mat.VecDense) (*mat.VecDense, error) {
	n, _ := s.a.Dims()
	if b.Len() != n {
		return nil, fmt.Errorf("sparse: right-hand side length %d does not match system size %d", b.Len(), n)
	}

	rhs := make([]float64, n)
	for i := 0; i < n; i++ {
		rhs[i] = b.AtVec(i)
	}

	x := make([]float64, n)
	s.iterations = 0
	s.residual = 0

	bnorm := floats.Norm(rhs, 2)
	if bnorm == 0 {
		// The zero vector solves Ax=0 exactly.
		return mat.NewVecDense(n, x), nil
	}
	tol := s.settings.Tolerance * bnorm

	r := make([]float64, n)
	copy(r, rhs)
	rhat := make([]float64, n)
	copy(rhat, r)

	p := make([]float64, n)
	v := make([]float64, n)
	sv := make([]float64, n)
	t := make([]float64, n)
	phat := make([]float64, n)
	shat := make([]float64, n)

	const tiny = 1e-290
	rho, alpha, omega := 1.0, 1.0, 1.0

	for iter := 1; iter <= s.settings.MaxIterations; iter++ {
		s.iterations = iter

		rhoNew := floats.Dot(rhat, r)
		if math.Abs(rhoNew) < tiny || math.IsNaN(rhoNew) {
			return nil, fmt.Errorf("%w: rho=%g at iteration %d", ErrBreakdown, rhoNew, iter)
		}

		if iter == 1 {
			copy(p, r)
		} else {
			beta := (rhoNew / rho) * (alpha / omega)
			// p = r + beta*(p - omega*v)
			floats.AddScaled(p, -omega, v)
			floats.Scale(beta, p)
			floats.Add(p, r)
		}
		rho = rhoNew

		floats.MulTo(phat, s.invDiag, p)
		s.a.MulVecTo(v, phat)

		denom := floats.Dot(rhat, v)
		if math.Abs(denom) < tiny || math.IsNaN(denom) {
			return nil, fmt.Errorf("%w: <rhat,v>=%g at iteration %d", ErrBreakdown, denom, iter)
		}
		alpha = rho / denom

		// s = r - alpha*v
		floats.AddScaledTo(sv, r, -alpha, v)
		if norm := floats.Norm(sv, 2); norm <= tol {
			floats.AddScaled(x, alpha, phat)
			s.residual = norm / bnorm
			return mat.NewVecDense(n, x), nil
		}

		floats.MulTo(shat, s.invDiag, sv)
		s.a.MulVecTo(t, shat)

		tt := floats.Dot(t, t)
		if tt < tiny || math.IsNaN(tt) {
			return nil, fmt.Errorf("%w: <t,t>=%g at iteration %d", ErrBreakdown, tt, iter)
		}
		omega = floats.Dot(t, sv) / tt
		if math.Abs(omega) < tiny || math.IsNaN(omega) {
			return nil, fmt.Errorf("%w: omega=%g at iteration %d", ErrBreakdown, omega, iter)
		}

		floats.AddScaled(x, alpha, phat)
		floats.AddScaled(x, omega, shat)

		// r = s - omega*t
		floats.AddScaledTo(r, sv, -omega, t)

		norm := floats.Norm(r, 2)
		s.residual = norm / bnorm
		if norm <= tol {
			return mat.NewVecDense(n, x), nil
		}
	}

	return nil, fmt.Errorf("%w: relative residual %g after %d iterations",
		ErrNoConvergence, s.residual, s.settings.MaxIterations)
}
