package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/amberhive/beeant-tracer/pkg/integrator"
)

const insertNodeSQL = `INSERT INTO node (
	path_id,
	Lo_x, Lo_y, Lo_z,
	wo_x, wo_y, wo_z,
	pos_out_x, pos_out_y, pos_out_z,
	inter_happened, inter_pos_x, inter_pos_y, inter_pos_z,
	Li_light_x, Li_light_y, Li_light_z,
	wi_light_x, wi_light_y, wi_light_z,
	inter_light_happened, inter_light_pos_x, inter_light_pos_y, inter_light_pos_z,
	Li_obj_x, Li_obj_y, Li_obj_z,
	wi_obj_x, wi_obj_y, wi_obj_z,
	inter_obj_happened, inter_obj_pos_x, inter_obj_pos_y, inter_obj_pos_z,
	RR, inter_obj_is_emission
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`

const insertPathSQL = `INSERT INTO path (row, col, node_cnt, node_ids) VALUES (?, ?, ?, ?)`

// Serializer flattens Paths into node/path rows. It owns the
// monotonically-incrementing path_id counter itself — moved out of the
// process-wide global slot the source uses — so a fresh Serializer per
// run always starts ids at 1.
type Serializer struct {
	nextID int64
}

// NewSerializer returns a Serializer with its id counter reset to 1.
func NewSerializer() *Serializer {
	return &Serializer{nextID: 1}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// InsertPath writes every node of path, then the path row referencing
// them, within tx. Callers are responsible for opening and committing
// tx; InsertPath never commits on its own.
func (s *Serializer) InsertPath(ctx context.Context, tx Tx, row, col int, path integrator.Path) error {
	ids := make([]string, len(path))
	for i, node := range path {
		id := s.nextID
		s.nextID++
		ids[i] = strconv.FormatInt(id, 10)
		if err := insertNode(ctx, tx, id, node); err != nil {
			return fmt.Errorf("store: insert node %d of path (%d,%d): %w", id, row, col, err)
		}
	}

	if err := tx.Exec(ctx, insertPathSQL, row, col, len(path), strings.Join(ids, " ")); err != nil {
		return fmt.Errorf("store: insert path (%d,%d): %w", row, col, err)
	}
	return nil
}

func insertNode(ctx context.Context, tx Tx, id int64, node integrator.PathNode) error {
	light := node.FromLight
	obj := node.FromObj

	return tx.Exec(ctx, insertNodeSQL,
		id,
		node.Lo.X, node.Lo.Y, node.Lo.Z,
		node.Wo.X, node.Wo.Y, node.Wo.Z,
		node.PosOut.X, node.PosOut.Y, node.PosOut.Z,
		boolToInt(node.Hit.Hit), node.Hit.Position.X, node.Hit.Position.Y, node.Hit.Position.Z,
		light.LiLight.X, light.LiLight.Y, light.LiLight.Z,
		light.WiLight.X, light.WiLight.Y, light.WiLight.Z,
		boolToInt(light.HitLight.Hit), light.HitLight.Position.X, light.HitLight.Position.Y, light.HitLight.Position.Z,
		obj.LiObj.X, obj.LiObj.Y, obj.LiObj.Z,
		obj.WiObj.X, obj.WiObj.Y, obj.WiObj.Z,
		boolToInt(obj.HitObj.Hit), obj.HitObj.Position.X, obj.HitObj.Position.Y, obj.HitObj.Position.Z,
		obj.RR, boolToInt(obj.HitObj.Hit && obj.HitObj.Material != nil && obj.HitObj.Material.IsEmissive()),
	)
}
