// Package formats reads and writes the geometry and raster files handled by navframe:
// Wavefront OBJ meshes, GML/GeoJSON/Shapefile polygons, PGM/PNG/BMP rasters and
// map sidecar YAML.
package formats
