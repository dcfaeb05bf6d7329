package game

import "math/rand/v2"

// Category describes one answer column. Tier is the lowest difficulty at
// which the category enters the selection pool.
type Category struct {
	Name string
	Icon string
	Tier Difficulty
}

var categoryCatalog = []Category{
	{Name: "Nombre", Icon: "👤", Tier: DifficultyFacil},
	{Name: "Animal", Icon: "🦁", Tier: DifficultyFacil},
	{Name: "País o Ciudad", Icon: "🌍", Tier: DifficultyFacil},
	{Name: "Fruta", Icon: "🍎", Tier: DifficultyFacil},
	{Name: "Objeto", Icon: "📦", Tier: DifficultyFacil},
	{Name: "Color", Icon: "🎨", Tier: DifficultyFacil},

	{Name: "Profesión", Icon: "👔", Tier: DifficultyNormal},
	{Name: "Canción", Icon: "🎵", Tier: DifficultyNormal},
	{Name: "Artista musical", Icon: "🎤", Tier: DifficultyNormal},
	{Name: "Videojuego", Icon: "🎮", Tier: DifficultyNormal},
	{Name: "Marca", Icon: "🏷️", Tier: DifficultyNormal},
	{Name: "Comida", Icon: "🍕", Tier: DifficultyNormal},
	{Name: "Película", Icon: "🎬", Tier: DifficultyNormal},
	{Name: "Serie de TV", Icon: "📺", Tier: DifficultyNormal},

	{Name: "Monumento", Icon: "🏛️", Tier: DifficultyDificil},
	{Name: "Libro", Icon: "📚", Tier: DifficultyDificil},
	{Name: "Deporte", Icon: "⚽", Tier: DifficultyDificil},
	{Name: "Evento histórico", Icon: "🎪", Tier: DifficultyDificil},
	{Name: "Empresa", Icon: "💼", Tier: DifficultyDificil},
	{Name: "Personaje famoso", Icon: "🌟", Tier: DifficultyDificil},
	{Name: "Universidad", Icon: "🎓", Tier: DifficultyDificil},
	{Name: "Instrumento musical", Icon: "🎸", Tier: DifficultyDificil},
	{Name: "Superhéroe", Icon: "🦸", Tier: DifficultyDificil},
}

// CategoryIcon returns the display icon for a category, with a neutral
// default for custom categories the catalog does not know.
func CategoryIcon(name string) string {
	for _, c := range categoryCatalog {
		if c.Name == name {
			return c.Icon
		}
	}
	return "📝"
}

// categoryPool is every catalog entry whose tier is at or below d. The pool
// widens monotonically with difficulty; extremo sees the whole catalog.
func categoryPool(d Difficulty) []string {
	maxTier := d
	if d == DifficultyExtremo {
		maxTier = DifficultyDificil
	}
	var pool []string
	for _, c := range categoryCatalog {
		if c.Tier <= maxTier {
			pool = append(pool, c.Name)
		}
	}
	return pool
}

// SelectCategories draws the difficulty's category count from its pool
// without replacement, capped at the pool size.
func SelectCategories(d Difficulty, rng *rand.Rand) []string {
	pool := categoryPool(d)
	n := min(d.Settings().NumCategories, len(pool))

	selected := make([]string, 0, n)
	for _, i := range rng.Perm(len(pool))[:n] {
		selected = append(selected, pool[i])
	}
	return selected
}
