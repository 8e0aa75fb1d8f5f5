// Package diagram renders mermaid definitions to raster images with mermaid-cli.
//
// The renderer writes the definition to a scratch .mmd file, runs
// `mmdc -i <file> -o <png>`, decodes the result, and removes the scratch
// directory on every exit path. PUPPETEER_EXECUTABLE_PATH is forwarded when a
// browser executable is configured.
package diagram
