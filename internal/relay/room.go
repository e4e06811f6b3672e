package relay

// Room correlates the two signaling sessions of one interview call. The room
// id is minted by the platform (it arrives in the call URL); the relay only
// creates the in-memory record when the first participant joins.
type Room struct {
	// ID is the identifier both peers must present.
	ID string

	// Host is the first participant to join (the interviewer, offer side).
	Host *Client

	// Guest is the second participant (the candidate, answer side).
	Guest *Client
}

// other returns the participant opposite to c, or nil.
func (r *Room) other(c *Client) *Client {
	if r.Host == c {
		return r.Guest
	}
	if r.Guest == c {
		return r.Host
	}
	return nil
}

// empty reports whether nobody is left in the room.
func (r *Room) empty() bool {
	return r.Host == nil && r.Guest == nil
}
