package contract

// stage buffers writes on top of a store so that a multi-step operation can
// finish all of its external calls before touching state. Reads see staged
// writes first.
type stage struct {
	base   kv
	writes map[string]string
	order  []string
}

func newStage(base kv) *stage {
	return &stage{base: base, writes: make(map[string]string)}
}

func (s *stage) StateGetObject(key string) *string {
	if v, ok := s.writes[key]; ok {
		return &v
	}
	return s.base.StateGetObject(key)
}

func (s *stage) StateSetObject(key, value string) {
	if _, ok := s.writes[key]; !ok {
		s.order = append(s.order, key)
	}
	s.writes[key] = value
}

// commit flushes staged writes to the base store in first-write order.
func (s *stage) commit() {
	for _, k := range s.order {
		s.base.StateSetObject(k, s.writes[k])
	}
	s.writes = make(map[string]string)
	s.order = nil
}
