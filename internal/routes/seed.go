package routes

import (
	"log"

	"github.com/gracecity/church-backend/internal/store"
)

// SeedFallback preloads the fallback stores from a YAML seed file so the public site has
// content while the database is unreachable.
func SeedFallback(path string, m *Modules) error {
	f, err := store.LoadSeedFile(path)
	if err != nil {
		return err
	}

	seeds := []func() (string, int, error){
		seedOne(f, m.Events.Backend()),
		seedOne(f, m.Testimonies.Backend()),
		seedOne(f, m.Sermons.Backend()),
		seedOne(f, m.Team.Backend()),
		seedOne(f, m.Counselling.Counsellors()),
	}
	for _, seed := range seeds {
		name, n, err := seed()
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("[seed] %s: %d fallback records", name, n)
		}
	}
	return nil
}

func seedOne[T any](f *store.SeedFile, b *store.Backend[T]) func() (string, int, error) {
	return func() (string, int, error) {
		n, err := store.SeedInto(f, b)
		return b.Name(), n, err
	}
}
