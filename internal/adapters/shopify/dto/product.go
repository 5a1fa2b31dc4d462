package dto

type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type VariantNode struct {
	ID    string `json:"id"`
	SKU   string `json:"sku"`
	Price string `json:"price,omitempty"`
}

type ImageNode struct {
	ID  string `json:"id,omitempty"`
	Src string `json:"src"`
}

type ProductNode struct {
	ID       string   `json:"id"`
	Handle   string   `json:"handle"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags"`
	Variants struct {
		Nodes []VariantNode `json:"nodes"`
	} `json:"variants"`
	Images struct {
		Nodes []ImageNode `json:"nodes"`
	} `json:"images"`
}

type VariantsQueryData struct {
	ProductVariants struct {
		Nodes    []VariantNode `json:"nodes"`
		PageInfo PageInfo      `json:"pageInfo"`
	} `json:"productVariants"`
}

type ProductsQueryData struct {
	Products struct {
		Nodes    []ProductNode `json:"nodes"`
		PageInfo PageInfo      `json:"pageInfo"`
	} `json:"products"`
}

type VariantUpdateData struct {
	ProductVariantUpdate struct {
		ProductVariant *struct {
			ID    string `json:"id"`
			Price string `json:"price"`
		} `json:"productVariant"`
		UserErrors []ShopifyUserError `json:"userErrors,omitempty"`
	} `json:"productVariantUpdate"`
}

type TagsAddData struct {
	TagsAdd struct {
		UserErrors []ShopifyUserError `json:"userErrors,omitempty"`
	} `json:"tagsAdd"`
}
