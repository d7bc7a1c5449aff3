package shopify

import "github.com/Karaba21/Innowave/internal/domain"

// metafieldFallbacks maps a primary metafield key to the alternate spelling
// probed when the primary is empty. Kept as data so the pairs are testable.
var metafieldFallbacks = map[string]string{
	domain.MetafieldBatteryTech:  "tecnologia_de_la_bateria",
	domain.MetafieldSIMCapacity:  "capacidad_de_tarjeta_sim",
	domain.MetafieldSubscription: "tipo_de_suscripcion",
	domain.MetafieldDataNetwork:  "red_datos",
}

const metafieldNamespace = "custom"

// metafieldIdentifiers builds the identifier list queried for every product:
// the eight primary keys plus each fallback spelling, all in the custom
// namespace. The order is stable so responses align with domain.MetafieldKeys.
func metafieldIdentifiers() []map[string]string {
	keys := domain.MetafieldKeys()
	ids := make([]map[string]string, 0, len(keys)+len(metafieldFallbacks))
	for _, key := range keys {
		ids = append(ids, map[string]string{"namespace": metafieldNamespace, "key": key})
	}
	for _, key := range keys {
		if alt, ok := metafieldFallbacks[key]; ok {
			ids = append(ids, map[string]string{"namespace": metafieldNamespace, "key": alt})
		}
	}
	return ids
}

const productFields = `
id
title
description
handle
productType
tags
priceRange {
  minVariantPrice {
    amount
    currencyCode
  }
}
compareAtPriceRange {
  minVariantPrice {
    amount
    currencyCode
  }
}
images(first: 10) {
  edges {
    node {
      url
    }
  }
}
variants(first: 1) {
  edges {
    node {
      id
    }
  }
}
metafields(identifiers: $identifiers) {
  namespace
  key
  value
}
`

const listAllQuery = `
query AllProducts($identifiers: [HasMetafieldsIdentifier!]!) {
  products(first: 100) {
    edges {
      node {` + productFields + `}
    }
  }
}`

const searchQuery = `
query SearchProducts($query: String!, $identifiers: [HasMetafieldsIdentifier!]!) {
  products(first: 100, query: $query) {
    edges {
      node {` + productFields + `}
    }
  }
}`

const collectionProductsQuery = `
query CollectionProducts($handle: String!, $identifiers: [HasMetafieldsIdentifier!]!) {
  collection(handle: $handle) {
    products(first: 100) {
      edges {
        node {` + productFields + `}
      }
    }
  }
}`

const productByHandleQuery = `
query ProductByHandle($handle: String!, $identifiers: [HasMetafieldsIdentifier!]!) {
  product(handle: $handle) {` + productFields + `}
}`

const collectionHandlesQuery = `
query CollectionHandles {
  collections(first: 50) {
    edges {
      node {
        handle
      }
    }
  }
}`

const variantByProductQuery = `
query FirstVariant($id: ID!) {
  product(id: $id) {
    variants(first: 1) {
      edges {
        node {
          id
        }
      }
    }
  }
}`

const cartCreateMutation = `
mutation CartCreate($lines: [CartLineInput!]!) {
  cartCreate(input: {lines: $lines}) {
    cart {
      id
      checkoutUrl
    }
    userErrors {
      field
      message
    }
  }
}`

const cartCheckoutURLQuery = `
query CartCheckoutURL($id: ID!) {
  cart(id: $id) {
    checkoutUrl
  }
}`
