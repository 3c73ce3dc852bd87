package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (id, name, city, rating, image_url, description, rooms)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name        = VALUES(name),
  city        = VALUES(city),
  rating      = VALUES(rating),
  image_url   = VALUES(image_url),
  description = VALUES(description),
  rooms       = VALUES(rooms),
  updated_at  = CURRENT_TIMESTAMP
`

const insertMissSQL = `
INSERT INTO mirror_misses (id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  seen_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Upstream ids are numeric strings; ordering by length first keeps them in
// numeric order.
const hotelOrder = ` ORDER BY LENGTH(id), id `

const listHotelsSQL = `
SELECT id, name, city, rating, image_url, rooms
FROM hotels` + hotelOrder + `
LIMIT ? OFFSET ?
`

const getHotelSQL = `
SELECT id, name, city, rating, image_url, rooms, description
FROM hotels
WHERE id = ?
`

const listNamesSQL = `
SELECT id, name, city
FROM hotels` + hotelOrder
