package optnone

type Plain struct {
	X int
}
