package integrators

import "github.com/san-kum/lensim/internal/dynamo"

// Verlet and Leapfrog assume the state is laid out as positions followed
// by their first derivatives, so the second half of Derive is the
// acceleration.

type Verlet struct {
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(sys dynamo.System, x dynamo.State, lam, dlam float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	dx := sys.Derive(x, lam)
	dl2 := dlam * dlam

	for i := 0; i < half; i++ {
		result[i] = x[i] + x[half+i]*dlam + 0.5*dx[half+i]*dl2
	}

	for i := 0; i < half; i++ {
		v.scratch[i] = result[i]
		v.scratch[half+i] = x[half+i]
	}

	dxNew := sys.Derive(v.scratch, lam+dlam)

	halfDl := 0.5 * dlam
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + (dx[half+i]+dxNew[half+i])*halfDl
	}

	return result
}

type Leapfrog struct {
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(sys dynamo.System, x dynamo.State, lam, dlam float64) dynamo.State {
	n := len(x)
	half := n / 2

	if len(l.scratch) != n {
		l.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	dx := sys.Derive(x, lam)
	halfDl := dlam * 0.5

	for i := 0; i < half; i++ {
		l.scratch[i] = x[i]
		l.scratch[half+i] = x[half+i] + dx[half+i]*halfDl
	}

	for i := 0; i < half; i++ {
		result[i] = x[i] + l.scratch[half+i]*dlam
		l.scratch[i] = result[i]
	}

	dxNew := sys.Derive(l.scratch, lam+dlam)

	for i := 0; i < half; i++ {
		result[half+i] = l.scratch[half+i] + dxNew[half+i]*halfDl
	}

	return result
}
