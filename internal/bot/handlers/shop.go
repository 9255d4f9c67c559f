package handlers

import (
	"fmt"

	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/texts"
	"github.com/santan-uz/santan-bot/pkg/config"
)

// NewShopLocationHandler drops the shop's map pin followed by a text card
// with the address and a Google Maps link.
func NewShopLocationHandler(txt *texts.Catalog, shop config.ShopConfig) Handler {
	return func(c telebot.Context) error {
		venue := &telebot.Venue{
			Location: telebot.Location{Lat: float32(shop.Lat), Lng: float32(shop.Lon)},
			Title:    shop.Name,
			Address:  shop.Address,
		}
		if err := c.Send(venue); err != nil {
			return err
		}

		maps := fmt.Sprintf("https://maps.google.com/?q=%v,%v", shop.Lat, shop.Lon)
		return c.Send(txt.F("shop.card", shop.Name, shop.Address, maps))
	}
}
