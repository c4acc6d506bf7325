package entity

type ItemType string

const (
	ItemFood     ItemType = "food"
	ItemBeverage ItemType = "beverage"
)

func (t ItemType) Valid() bool { return t == ItemFood || t == ItemBeverage }

type OrderItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     ItemType `json:"type"`
	Quantity int      `json:"quantity"`

	// beverages only
	Customization *Customization `json:"customization,omitempty"`
}

type Customization struct {
	Size       string `json:"size,omitempty"`
	SugarLevel string `json:"sugarLevel,omitempty"`
	IceLevel   string `json:"iceLevel,omitempty"`
	Note       string `json:"note,omitempty"`
}
