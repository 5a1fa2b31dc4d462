package proxy

import (
	"fmt"
	"strings"
	"time"
)

// Subset of the Shopify order-paid webhook payload the relay needs.
type ShopifyOrder struct {
	ID              int64            `json:"id"`
	Email           string           `json:"email"`
	ShippingAddress *ShopifyAddress  `json:"shipping_address"`
	Customer        *ShopifyCustomer `json:"customer"`
	LineItems       []ShopifyLine    `json:"line_items"`
}

type ShopifyAddress struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	Zip         string `json:"zip"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

type ShopifyCustomer struct {
	Phone string `json:"phone"`
}

type ShopifyLine struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// SifamOrder is the supplier's order-creation schema.
type SifamOrder struct {
	CodeClient        string         `json:"CodeClient"`
	DateCmd           string         `json:"DateCmd"`
	HeureCmd          string         `json:"HeureCmd"`
	ReferenceCommande string         `json:"ReferenceCommande"`
	ChronoRelais      int            `json:"ChronoRelais"`
	NomClient         string         `json:"NomClient"`
	NomLivraison      string         `json:"NomLivraison"`
	Adresse1          string         `json:"Adresse1"`
	Adresse2          string         `json:"Adresse2"`
	CodePostal        string         `json:"CodePostal"`
	Ville             string         `json:"Ville"`
	CodePays          string         `json:"CodePays"`
	Telephone         string         `json:"Telephone"`
	Email             string         `json:"Email"`
	Express           int            `json:"Express"`
	Prefix            string         `json:"Prefix"`
	Articles          []SifamArticle `json:"Articles"`
}

type SifamArticle struct {
	ReferenceArticle string `json:"ReferenceArticle"`
	Quantite         string `json:"Quantite"`
}

// BuildSupplierOrder maps an order-paid webhook to the supplier schema.
// Time-dependent fields take the clock as an argument.
func BuildSupplierOrder(order ShopifyOrder, now time.Time) SifamOrder {
	address := order.ShippingAddress
	if address == nil {
		address = &ShopifyAddress{}
	}

	name := strings.TrimSpace(address.FirstName + " " + address.LastName)
	phone := address.Phone
	if phone == "" && order.Customer != nil {
		phone = order.Customer.Phone
	}
	country := strings.ToUpper(address.CountryCode)
	if country == "" {
		country = "FR"
	}

	articles := make([]SifamArticle, 0, len(order.LineItems))
	for _, line := range order.LineItems {
		articles = append(articles, SifamArticle{
			ReferenceArticle: line.SKU,
			Quantite:         fmt.Sprintf("%d", line.Quantity),
		})
	}

	return SifamOrder{
		CodeClient:        "2",
		DateCmd:           now.Format("20060102"),
		HeureCmd:          now.Format("1504"),
		ReferenceCommande: fmt.Sprintf("%d", order.ID),
		ChronoRelais:      1,
		NomClient:         name,
		NomLivraison:      name,
		Adresse1:          address.Address1,
		Adresse2:          address.Address2,
		CodePostal:        address.Zip,
		Ville:             address.City,
		CodePays:          country,
		Telephone:         phone,
		Email:             order.Email,
		Express:           2,
		Prefix:            "XXX",
		Articles:          articles,
	}
}
