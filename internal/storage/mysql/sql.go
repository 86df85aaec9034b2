package mysql

const upsertServiceSQL = `
INSERT INTO services
  (id, name, category, base_price, price_type, location, highlights, rating, review_count, popularity, tags)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name         = VALUES(name),
  category     = VALUES(category),
  base_price   = VALUES(base_price),
  price_type   = VALUES(price_type),
  location     = VALUES(location),
  highlights   = VALUES(highlights),
  rating       = VALUES(rating),
  review_count = VALUES(review_count),
  popularity   = VALUES(popularity),
  tags         = VALUES(tags),
  updated_at   = CURRENT_TIMESTAMP
`

const insertMissSQL = `
INSERT INTO feed_misses (id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getServiceSQL = `
SELECT
  id, name, category, base_price, price_type, location,
  highlights, rating, review_count, popularity, tags
FROM services
WHERE id = ?
`

const listServicesPrefix = `
SELECT
  id, name, category, base_price, price_type, location,
  highlights, rating, review_count, popularity, tags
FROM services
`
