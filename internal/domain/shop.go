package domain

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// AdminDomain is the Shopify admin host allowed to embed the app
const AdminDomain = "admin.shopify.com"

var shopDomainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-]*\.myshopify\.com$`)

// IsValidShopDomain reports whether shop looks like a *.myshopify.com domain
func IsValidShopDomain(shop string) bool {
	return shopDomainPattern.MatchString(shop)
}

// ValidateShop checks presence and format of a shop domain
func ValidateShop(shop string) error {
	if shop == "" {
		return ErrMissingShop
	}
	if !IsValidShopDomain(shop) {
		return fmt.Errorf("%w: %s", ErrInvalidShopDomain, shop)
	}
	return nil
}

// DecodeHost decodes the base64 "host" parameter Shopify passes to embedded apps.
// Shopify omits padding, so both padded and unpadded forms are accepted.
func DecodeHost(host string) (string, error) {
	trimmed := strings.TrimRight(host, "=")
	if trimmed == "" {
		return "", ErrInvalidHost
	}
	decoded, err := base64.RawStdEncoding.DecodeString(trimmed)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(trimmed)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidHost, err)
		}
	}
	return string(decoded), nil
}

// ShopFromDest strips the scheme from a session token "dest" claim
func ShopFromDest(dest string) string {
	shop := strings.TrimPrefix(dest, "https://")
	shop = strings.TrimPrefix(shop, "http://")
	return strings.TrimSuffix(shop, "/")
}
