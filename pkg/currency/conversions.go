package currency

import "sync"

// Lookup identifies a single rate to resolve.
type Lookup struct {
	From string
	// "2006-01-02" or Latest
	Date string
}

type Conversions map[Lookup]float64

// GenerateConversions resolves all lookups against the target currency
// concurrently. The converter's cache keeps repeat lookups cheap.
func GenerateConversions(converter *Converter, to string, lookups []Lookup, defaultRate *float64) (Conversions, error) {
	unique := make([]Lookup, 0, len(lookups))
	seen := make(map[Lookup]bool)

	for _, lookup := range lookups {
		if !seen[lookup] {
			seen[lookup] = true
			unique = append(unique, lookup)
		}
	}

	wg := sync.WaitGroup{}
	mutex := sync.Mutex{}

	conversions := make(Conversions)

	var conversionErr error = nil

	for _, lookup := range unique {
		wg.Add(1)

		go func(lookup Lookup) {
			defer wg.Done()

			rate, err := converter.Rate(lookup.From, to, lookup.Date, defaultRate)
			if err != nil {
				conversionErr = err
				return
			}

			mutex.Lock()
			defer mutex.Unlock()

			conversions[lookup] = rate
		}(lookup)
	}

	wg.Wait()

	if conversionErr != nil {
		return nil, conversionErr
	}

	return conversions, nil
}
