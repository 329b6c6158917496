package physics

// Stats are the counters of one tick. They are reset when a tick starts.
type Stats struct {
	SATTests       int `json:"sat_tests"`
	Collisions     int `json:"collisions"`
	ReusedContacts int `json:"reused_contacts"`
	NewContacts    int `json:"new_contacts"`
	CandidatePairs int `json:"candidate_pairs"`
	Reinserts      int `json:"bvh_reinserts"`

	Bodies     int     `json:"bodies"`
	Arbiters   int     `json:"arbiters"`
	FrameBytes uintptr `json:"frame_bytes"`
}
