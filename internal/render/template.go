package render

import "html/template"

// mapTemplate is the standalone artifact document. The zone payload is
// inlined so the file works from disk with no server; only the background
// image travels alongside it.
var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            background: #1a1a1a;
            font-family: Arial, sans-serif;
            overflow: hidden;
        }

        #map-wrapper {
            position: fixed;
            top: 0;
            left: 0;
            width: 100vw;
            height: 100vh;
            overflow: hidden;
        }

        #map-container {
            position: relative;
            width: {{.ImageSize}}px;
            height: {{.ImageSize}}px;
            transform-origin: 0 0;
        }

        #map-image {
            position: absolute;
            top: 0;
            left: 0;
            width: 100%;
            height: 100%;
            pointer-events: none;
        }

        #map-svg {
            position: absolute;
            top: 0;
            left: 0;
            width: 100%;
            height: 100%;
        }

        .zone-rect {
            fill: none;
            stroke-width: 2;
            pointer-events: all;
            cursor: pointer;
        }

        .zone-rect.hovered {
            fill: rgba(255, 255, 0, 0.3);
        }

        .zone-label {
            fill: white;
            font-size: 8pt;
            font-weight: bold;
            paint-order: stroke;
            stroke: black;
            stroke-width: 2px;
            pointer-events: none;
            user-select: none;
        }

        .static-dot {
            stroke: black;
            stroke-width: 1;
            cursor: pointer;
        }

        .static-dot.hovered {
            stroke: yellow;
            stroke-width: 2;
        }

        #tooltip {
            position: fixed;
            background: rgba(0, 0, 0, 0.9);
            color: white;
            padding: 8px 12px;
            border-radius: 4px;
            border: 1px solid yellow;
            font-size: 12px;
            pointer-events: none;
            display: none;
            z-index: 1000;
            max-width: 300px;
            white-space: pre-wrap;
        }

        #popup {
            position: fixed;
            background: rgba(20, 20, 20, 0.95);
            color: white;
            padding: 20px;
            border-radius: 8px;
            border: 2px solid yellow;
            display: none;
            z-index: 2000;
            max-width: 500px;
            max-height: 80vh;
            overflow-y: auto;
            box-shadow: 0 4px 20px rgba(0, 0, 0, 0.5);
        }

        #popup h3 {
            margin-bottom: 15px;
            color: yellow;
            border-bottom: 1px solid yellow;
            padding-bottom: 8px;
        }

        #popup .category {
            margin-bottom: 15px;
        }

        #popup .category-name {
            color: yellow;
            font-weight: bold;
            margin-bottom: 5px;
        }

        #popup .classname {
            color: #ccc;
            font-size: 11px;
            padding-left: 10px;
            line-height: 1.4;
        }

        #popup::-webkit-scrollbar {
            width: 8px;
        }

        #popup::-webkit-scrollbar-track {
            background: #2a2a2a;
        }

        #popup::-webkit-scrollbar-thumb {
            background: yellow;
            border-radius: 4px;
        }
    </style>
</head>
<body>
    <div id="map-wrapper">
        <div id="map-container">
            <img id="map-image" src="{{.BackgroundImage}}" alt="{{.Title}}">
            <svg id="map-svg"></svg>
        </div>
    </div>

    <div id="tooltip"></div>
    <div id="popup"></div>

    <script>
        const zonesData = {{.ZonesJSON}};
        initializeMap();

        function initializeMap() {
            const svg = document.getElementById('map-svg');
            const tooltip = document.getElementById('tooltip');
            const popup = document.getElementById('popup');

            const WORLD_SIZE = zonesData.world_size;
            const IMAGE_SIZE = zonesData.image_size;
            const SCALE = IMAGE_SIZE / WORLD_SIZE;

            function worldToPixel(x, z) {
                const pixelX = x * SCALE;
                const pixelY = IMAGE_SIZE - (z * SCALE);
                return { x: pixelX, y: pixelY };
            }

            function dangerText(zone) {
                if (!zone.danger_level) {
                    return 'Danger: no data';
                }
                return 'Danger: ' + zone.danger_level.toFixed(1);
            }

            function categoryText(zone) {
                if (!zone.category_order.length) {
                    return 'Categories: none';
                }
                return 'Categories: ' + zone.category_order.join(', ');
            }

            zonesData.dynamic.forEach(zone => {
                const topLeft = worldToPixel(zone.coordx_upleft, zone.coordz_upleft);
                const bottomRight = worldToPixel(zone.coordx_lowerright, zone.coordz_lowerright);

                const x = topLeft.x;
                const y = topLeft.y;
                const width = bottomRight.x - topLeft.x;
                const height = bottomRight.y - topLeft.y;

                const rect = document.createElementNS('http://www.w3.org/2000/svg', 'rect');
                rect.setAttribute('x', x);
                rect.setAttribute('y', y);
                rect.setAttribute('width', width);
                rect.setAttribute('height', height);
                rect.setAttribute('stroke', zone.color);
                rect.classList.add('zone-rect');
                rect.dataset.zoneId = zone.id;

                rect.addEventListener('mouseenter', () => {
                    rect.classList.add('hovered');
                    tooltip.innerHTML = '<strong>' + zone.id + '</strong><br>' + zone.comment +
                        '<br>num_config: ' + zone.num_config +
                        '<br>' + categoryText(zone) +
                        '<br>' + dangerText(zone);
                    tooltip.style.display = 'block';
                });

                rect.addEventListener('mousemove', (e) => {
                    tooltip.style.left = (e.clientX + 15) + 'px';
                    tooltip.style.top = (e.clientY + 15) + 'px';
                });

                rect.addEventListener('mouseleave', () => {
                    rect.classList.remove('hovered');
                    tooltip.style.display = 'none';
                });

                rect.addEventListener('click', (e) => {
                    e.stopPropagation();
                    showPopup(zone, e.clientX, e.clientY);
                });

                svg.appendChild(rect);

                const text = document.createElementNS('http://www.w3.org/2000/svg', 'text');
                text.setAttribute('x', x + width / 2);
                text.setAttribute('y', y + height / 2);
                text.setAttribute('text-anchor', 'middle');
                text.setAttribute('dominant-baseline', 'middle');
                text.classList.add('zone-label');
                text.textContent = zone.id;
                svg.appendChild(text);
            });

            zonesData.static.forEach(zone => {
                const pos = worldToPixel(zone.coordx, zone.coordz);

                const circle = document.createElementNS('http://www.w3.org/2000/svg', 'circle');
                circle.setAttribute('cx', pos.x);
                circle.setAttribute('cy', pos.y);
                circle.setAttribute('r', 8);
                circle.setAttribute('fill', zone.color);
                circle.classList.add('static-dot');
                circle.dataset.zoneId = zone.id;

                circle.addEventListener('mouseenter', () => {
                    circle.classList.add('hovered');
                    tooltip.innerHTML = '<strong>' + zone.id + '</strong><br>' + zone.comment +
                        '<br>Coordinates: ' + zone.coordx + ', ' + zone.coordy + ', ' + zone.coordz +
                        '<br>num_config: ' + zone.num_config +
                        '<br>' + categoryText(zone) +
                        '<br>' + dangerText(zone);
                    tooltip.style.display = 'block';
                });

                circle.addEventListener('mousemove', (e) => {
                    tooltip.style.left = (e.clientX + 15) + 'px';
                    tooltip.style.top = (e.clientY + 15) + 'px';
                });

                circle.addEventListener('mouseleave', () => {
                    circle.classList.remove('hovered');
                    tooltip.style.display = 'none';
                });

                circle.addEventListener('click', (e) => {
                    e.stopPropagation();
                    showPopup(zone, e.clientX, e.clientY);
                });

                svg.appendChild(circle);
            });

            function showPopup(zone, mouseX, mouseY) {
                let html = '<h3>' + zone.id + '</h3>';

                if (zone.comment) {
                    html += '<p style="margin-bottom: 15px; color: #aaa;">' + zone.comment + '</p>';
                }

                html += '<p style="margin-bottom: 15px;">' + dangerText(zone) + '</p>';

                for (const category of zone.category_order) {
                    const classnames = zone.categories[category] || [];
                    html += '<div class="category">';
                    html += '<div class="category-name">' + category + ' (' + classnames.length + '):</div>';
                    classnames.forEach(classname => {
                        html += '<div class="classname">' + classname + '</div>';
                    });
                    html += '</div>';
                }

                popup.innerHTML = html;
                popup.style.display = 'block';

                let left = mouseX + 20;
                let top = mouseY + 20;

                const rect = popup.getBoundingClientRect();
                if (left + rect.width > window.innerWidth) {
                    left = mouseX - rect.width - 20;
                }
                if (top + rect.height > window.innerHeight) {
                    top = window.innerHeight - rect.height - 20;
                }

                popup.style.left = Math.max(10, left) + 'px';
                popup.style.top = Math.max(10, top) + 'px';
            }

            document.addEventListener('click', (e) => {
                if (!popup.contains(e.target)) {
                    popup.style.display = 'none';
                }
            });

            initializePanZoom();
        }

        function initializePanZoom() {
            const wrapper = document.getElementById('map-wrapper');
            const container = document.getElementById('map-container');
            const mapSize = zonesData.image_size;

            let scale = 1;
            let translateX = 0;
            let translateY = 0;
            let isDragging = false;
            let startX = 0;
            let startY = 0;

            function getMinScale() {
                return Math.min(window.innerWidth / mapSize, window.innerHeight / mapSize);
            }

            let minScale = getMinScale();

            function centerMap() {
                translateX = (window.innerWidth - mapSize * scale) / 2;
                translateY = (window.innerHeight - mapSize * scale) / 2;
                updateTransform();
            }

            function updateTransform() {
                container.style.transform = 'translate(' + translateX + 'px, ' + translateY + 'px) scale(' + scale + ')';
            }

            wrapper.addEventListener('wheel', (e) => {
                e.preventDefault();
                const rect = wrapper.getBoundingClientRect();
                const mouseX = e.clientX - rect.left;
                const mouseY = e.clientY - rect.top;
                const mapX = (mouseX - translateX) / scale;
                const mapY = (mouseY - translateY) / scale;
                const delta = e.deltaY > 0 ? 0.9 : 1.1;
                const newScale = Math.max(minScale, scale * delta);
                translateX = mouseX - mapX * newScale;
                translateY = mouseY - mapY * newScale;
                scale = newScale;
                updateTransform();
            }, { passive: false });

            wrapper.addEventListener('mousedown', (e) => {
                if (e.button === 0) {
                    isDragging = true;
                    startX = e.clientX - translateX;
                    startY = e.clientY - translateY;
                    wrapper.style.cursor = 'grabbing';
                }
            });

            document.addEventListener('mousemove', (e) => {
                if (isDragging) {
                    translateX = e.clientX - startX;
                    translateY = e.clientY - startY;
                    updateTransform();
                }
            });

            document.addEventListener('mouseup', () => {
                if (isDragging) {
                    isDragging = false;
                    wrapper.style.cursor = 'grab';
                }
            });

            wrapper.style.cursor = 'grab';

            window.addEventListener('resize', () => {
                minScale = getMinScale();
                if (scale < minScale) {
                    scale = minScale;
                    centerMap();
                }
            });

            scale = 1.0;
            centerMap();
        }
    </script>
</body>
</html>
`))
