package model

type Variant struct {
	ID    string
	SKU   string
	Price string
}

type Product struct {
	ID        string
	Handle    string
	Title     string
	Tags      []string
	Variants  []Variant
	ImageSrcs []string
}

// SKUs returns the non-empty variant SKUs of the product, in variant order.
func (p Product) SKUs() []string {
	skus := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		if v.SKU != "" {
			skus = append(skus, v.SKU)
		}
	}
	return skus
}
