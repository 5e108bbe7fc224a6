package directory

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/example/foodshare-matching/internal/models"
)

// RedisDirectory is a recipient source backed by Redis GEO commands plus a
// profile hash per recipient. Location updates land via GEOADD so radius
// queries stay server-side; the full profile is stored alongside as JSON.
type RedisDirectory struct {
	client *redis.Client
	geoKey string
	ctx    context.Context
}

func NewRedisDirectory(addr, password, geoKey string) *RedisDirectory {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RedisDirectory{client: c, geoKey: geoKey, ctx: context.Background()}
}

func (rd *RedisDirectory) UpsertRecipient(r models.RecipientOrganization) {
	_, _ = rd.client.GeoAdd(rd.ctx, rd.geoKey, &redis.GeoLocation{
		Longitude: r.Loc.Lon, Latitude: r.Loc.Lat, Name: r.ID,
	}).Result()
	if b, err := json.Marshal(r); err == nil {
		_ = rd.client.HSet(rd.ctx, profileKey(r.ID), "profile", string(b)).Err()
	}
	_ = rd.client.SAdd(rd.ctx, rd.geoKey+":ids", r.ID).Err()
}

func (rd *RedisDirectory) GetRecipient(id string) (models.RecipientOrganization, bool) {
	raw, err := rd.client.HGet(rd.ctx, profileKey(id), "profile").Result()
	if err != nil {
		return models.RecipientOrganization{}, false
	}
	var r models.RecipientOrganization
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return models.RecipientOrganization{}, false
	}
	return r, true
}

// Recipients loads every registered recipient profile. Entries whose profile
// hash is missing or unreadable are skipped so one bad record cannot poison
// a scan.
func (rd *RedisDirectory) Recipients() []models.RecipientOrganization {
	ids, err := rd.client.SMembers(rd.ctx, rd.geoKey+":ids").Result()
	if err != nil {
		return nil
	}
	out := make([]models.RecipientOrganization, 0, len(ids))
	for _, id := range ids {
		if r, ok := rd.GetRecipient(id); ok {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NearbyRecipients asks Redis for recipients within radiusKm of the query
// point, nearest first.
func (rd *RedisDirectory) NearbyRecipients(lat, lon, radiusKm float64, limit int) []models.RecipientOrganization {
	res, err := rd.client.GeoRadius(rd.ctx, rd.geoKey, lon, lat, &redis.GeoRadiusQuery{
		Radius: radiusKm, Unit: "km", WithCoord: true, WithDist: true, Count: limit, Sort: "ASC",
	}).Result()
	if err != nil {
		return nil
	}
	out := make([]models.RecipientOrganization, 0, len(res))
	for _, g := range res {
		if r, ok := rd.GetRecipient(g.Name); ok {
			out = append(out, r)
		}
	}
	return out
}

func profileKey(id string) string { return "recipient:meta:" + id }
