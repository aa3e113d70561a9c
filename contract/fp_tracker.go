package contract

// trackBalance compares the vault balance against the snapshot taken at the
// player's previous tracked interaction. A withdrawal down to half of that
// snapshot or less restarts the deposit clock; deposits and smaller
// withdrawals never do. The snapshot is always updated.
//
// Returns true when the basis was reset.
func trackBalance(p *Player, balance int64, now uint64) bool {
	reset := false
	switch {
	case !p.BasisSet:
		p.DepositBasis = now
		p.BasisSet = true
	case p.LastBalance > 0 && balance <= p.LastBalance/2:
		p.DepositBasis = now
		reset = true
	}
	p.LastBalance = balance
	return reset
}

// depositDuration is the time the player's deposit has been accruing.
func depositDuration(p *Player, now uint64) uint64 {
	if !p.BasisSet || now < p.DepositBasis {
		return 0
	}
	return now - p.DepositBasis
}
