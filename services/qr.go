package services

import (
	"encoding/json"
	"errors"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
)

var (
	ErrItemNotFound = errors.New("item not found in order")
	ErrNotBeverage  = errors.New("only beverages carry a customization label")
)

// LabelPayload is what the QR code on a beverage label encodes.
type LabelPayload struct {
	OrderNumber   string `json:"orderNumber"`
	DisplayNumber string `json:"displayNumber"`
	Item          string `json:"item"`
	Quantity      int    `json:"quantity"`
	Size          string `json:"size,omitempty"`
	SugarLevel    string `json:"sugarLevel,omitempty"`
	IceLevel      string `json:"iceLevel,omitempty"`
	Note          string `json:"note,omitempty"`
}

func (p LabelPayload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CustomizationPayload builds the label payload for one beverage of o.
func CustomizationPayload(o entity.Order, itemID string) (LabelPayload, error) {
	for _, it := range o.Items {
		if it.ID != itemID {
			continue
		}
		if it.Type != entity.ItemBeverage {
			return LabelPayload{}, ErrNotBeverage
		}
		p := LabelPayload{
			OrderNumber:   o.OrderNumber,
			DisplayNumber: DisplayNumber(o),
			Item:          it.Name,
			Quantity:      it.Quantity,
		}
		if c := it.Customization; c != nil {
			p.Size, p.SugarLevel, p.IceLevel, p.Note = c.Size, c.SugarLevel, c.IceLevel, c.Note
		}
		return p, nil
	}
	return LabelPayload{}, ErrItemNotFound
}
