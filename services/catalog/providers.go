package catalog

import "github.com/MarianoCuria/PeliGo/models"

// fallbackLink is used when TMDB returns no regional landing link.
const fallbackLink = "#"

// Upstream only exposes one landing link per title and country, so every
// offer on a title shares the same link. The quality label is likewise not
// provided per offer.
const defaultQuality = "HD"

// mapAppendedProviders extracts the given region's offers from the
// append_to_response watch-provider block of a raw record.
func mapAppendedProviders(wp *tmdbWatchProviders, region string) []models.PlatformOffer {
	if wp == nil {
		return []models.PlatformOffer{}
	}
	return mapRegionOffers(wp.Results, region)
}

// mapRegionOffers maps one country's provider listings into the canonical
// offer list. Buckets are processed in fixed priority order (stream, rent,
// buy); a platform already emitted under a higher-priority kind is not
// re-listed under a lower one.
func mapRegionOffers(results map[string]tmdbProviderRegion, region string) []models.PlatformOffer {
	offers := []models.PlatformOffer{}
	block, ok := results[region]
	if !ok {
		return offers
	}

	link := block.Link
	if link == "" {
		link = fallbackLink
	}

	buckets := []struct {
		kind      string
		providers []tmdbProvider
	}{
		{models.OfferStream, block.Flatrate},
		{models.OfferRent, block.Rent},
		{models.OfferBuy, block.Buy},
	}

	seen := make(map[string]bool)
	for _, bucket := range buckets {
		for _, p := range bucket.providers {
			slug := slugify(p.ProviderName)
			if slug == "" || seen[slug] {
				continue
			}
			seen[slug] = true
			offers = append(offers, models.PlatformOffer{
				Name:    p.ProviderName,
				Slug:    slug,
				Logo:    posterURL(p.LogoPath, logoSize),
				Type:    bucket.kind,
				Quality: defaultQuality,
				Link:    link,
			})
		}
	}
	return offers
}
