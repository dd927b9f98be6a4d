package gamedata

// Item names sold in the shop or granted by origins.
const (
	ItemFormalOutfit  = "formal_outfit"
	ItemCommonOutfit  = "common_outfit"
	ItemWorkOutfit    = "work_outfit"
	ItemRaggedOutfit  = "ragged_outfit"
	ItemPistol        = "pistol"
	ItemDagger        = "dagger"
	ItemHealingSalves = "healing_salves"
)

// ShopItem is one catalogue entry.
type ShopItem struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

var shopCatalogue = []ShopItem{
	{Name: ItemFormalOutfit, Price: 120},
	{Name: ItemCommonOutfit, Price: 40},
	{Name: ItemWorkOutfit, Price: 60},
	{Name: ItemRaggedOutfit, Price: 10},
	{Name: ItemPistol, Price: 200},
	{Name: ItemDagger, Price: 80},
	{Name: ItemHealingSalves, Price: 30},
}

var shopPrices = func() map[string]int {
	prices := make(map[string]int, len(shopCatalogue))
	for _, item := range shopCatalogue {
		prices[item.Name] = item.Price
	}
	return prices
}()

// ShopCatalogue returns the shop's items in listing order.
func ShopCatalogue() []ShopItem {
	catalogue := make([]ShopItem, len(shopCatalogue))
	copy(catalogue, shopCatalogue)
	return catalogue
}

// ItemPrice returns the price of a catalogue item. The name must already
// be normalized. The second return value reports whether the item exists.
func ItemPrice(name string) (int, bool) {
	price, ok := shopPrices[name]
	return price, ok
}

// IsItem reports whether a normalized name is a known catalogue item.
func IsItem(name string) bool {
	_, ok := shopPrices[name]
	return ok
}
