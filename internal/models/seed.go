package models

// PublishedTracks returns the released discography seeded into the
// catalog on first use.
//
// Timestamps are fixed literals rather than computed at startup: seeding
// uses insert-or-ignore, so only the first value ever lands in the store
// and recomputing per process would just churn unused values.
func PublishedTracks() []*CatalogEntry {
	return []*CatalogEntry{
		{
			ID:          "catalog-1",
			Title:       "Ginebra balla amb el sol",
			Status:      CatalogPublished,
			ISRC:        "QT6EF2576934",
			UPC:         "199956616165",
			SubmittedAt: "2025-05-02T10:00:00Z",
		},
		{
			ID:          "catalog-2",
			Title:       "Fuego Callejero",
			Status:      CatalogPublished,
			ISRC:        "QT6EG2578923",
			UPC:         "199955965677",
			SubmittedAt: "2025-05-02T09:50:00Z",
		},
		{
			ID:          "catalog-3",
			Title:       "Nos besamos y nos olvidamos",
			Status:      CatalogPublished,
			ISRC:        "QT6EG2578924",
			UPC:         "199955965707",
			SubmittedAt: "2025-05-02T09:40:00Z",
		},
		{
			ID:          "catalog-4",
			Title:       "Ya está bien",
			Status:      CatalogPublished,
			ISRC:        "QT6EG2586747",
			UPC:         "199955961914",
			SubmittedAt: "2025-05-02T09:30:00Z",
		},
		{
			ID:          "catalog-5",
			Title:       "Más pija que yo",
			Status:      CatalogPublished,
			ISRC:        "QT6EG2586748",
			UPC:         "199955961921",
			SubmittedAt: "2025-05-02T09:20:00Z",
		},
		{
			ID:          "catalog-6",
			Title:       "Ciego por tu luz",
			Status:      CatalogPublished,
			ISRC:        "QT6ET2502320",
			UPC:         "199955955654",
			SubmittedAt: "2025-05-02T09:10:00Z",
		},
	}
}
