package auth

import "time"

func SetTokenClock(g *JWTTokenGenerator, now func() time.Time) {
	g.now = now
}

func SetServiceClock(s *Service, now func() time.Time) {
	s.now = now
}
