package game

// eligible reports whether two queued players can be paired. Filters apply in
// order: same format and opposite side, no decided game between the two in
// either player's run snapshot (checked both directions, each against its own
// snapshot), and neither player on the other's block list. First entry in
// queue order that passes wins; there is no scoring.
func eligible(candidate, entry *QueueEntry) bool {
	if candidate.Username == entry.Username {
		return false
	}
	if candidate.Format != entry.Format || candidate.Side == entry.Side {
		return false
	}
	if candidate.Run.HasDecidedGameAgainst(entry.Username) {
		return false
	}
	if entry.Run.HasDecidedGameAgainst(candidate.Username) {
		return false
	}
	if candidate.Blocked[entry.Username] || entry.Blocked[candidate.Username] {
		return false
	}
	return true
}
